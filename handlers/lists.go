package handlers

import (
	"errors"
	"net/http"
	"time"

	"finance-dashboard/api/events"
	"finance-dashboard/api/logger"
	"finance-dashboard/api/models"
	"finance-dashboard/api/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// editError is an edit-layer invariant violation with its response status.
type editError struct {
	status int
	msg    string
}

// CreateEntry appends one entry to the named list and responds with the
// stored entry, id included.
func (h *Handlers) CreateEntry(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	list := c.Param("list")
	entry, known := models.NewEntryForList(list)
	if !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown list: " + list})
		return
	}

	if err := c.ShouldBindJSON(entry); err != nil {
		logger.Get().Error("error binding JSON",
			zap.String("list", list),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if editErr := h.checkEditInvariants(c, claims.UserID, list, entry, ""); editErr != nil {
		c.JSON(editErr.status, gin.H{"error": editErr.msg})
		return
	}

	if account, isAccount := entry.(*models.Account); isAccount {
		account.CreatedAt = time.Now().UTC()
	}

	created, err := h.Store.AppendToList(c, claims.UserID, list, entry)
	if err != nil {
		h.storeError(c, claims.UserID, list, err)
		return
	}

	logger.Get().Info("entry created",
		zap.String("user_id", claims.UserID),
		zap.String("list", list),
		zap.String("entry_id", created.EntryID()))
	h.Broker.Publish(claims.UserID, events.Event{Type: events.TypeDashboardUpdated, List: list, EntryID: created.EntryID()})
	c.JSON(http.StatusOK, created)
}

// UpdateEntry overwrites an existing entry's fields, keeping its id, and
// responds with the updated entry.
func (h *Handlers) UpdateEntry(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	list := c.Param("list")
	id := c.Param("id")
	entry, known := models.NewEntryForList(list)
	if !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown list: " + list})
		return
	}

	if err := c.ShouldBindJSON(entry); err != nil {
		logger.Get().Error("error binding JSON",
			zap.String("list", list),
			zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if editErr := h.checkEditInvariants(c, claims.UserID, list, entry, id); editErr != nil {
		c.JSON(editErr.status, gin.H{"error": editErr.msg})
		return
	}

	// createdAt is server-stamped at creation; a replace body never carries
	// it, so copy it forward the same way the id is.
	if account, isAccount := entry.(*models.Account); isAccount {
		doc, err := h.Store.Find(c, claims.UserID)
		if err == nil {
			for _, existing := range doc.Accounts {
				if existing.ID == id {
					account.CreatedAt = existing.CreatedAt
					break
				}
			}
		}
	}

	updated, err := h.Store.ReplaceListEntry(c, claims.UserID, list, id, entry)
	if err != nil {
		h.storeError(c, claims.UserID, list, err)
		return
	}

	logger.Get().Info("entry updated",
		zap.String("user_id", claims.UserID),
		zap.String("list", list),
		zap.String("entry_id", id))
	h.Broker.Publish(claims.UserID, events.Event{Type: events.TypeDashboardUpdated, List: list, EntryID: id})
	c.JSON(http.StatusOK, updated)
}

// DeleteEntry removes an entry and responds with the full remaining list.
func (h *Handlers) DeleteEntry(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	list := c.Param("list")
	id := c.Param("id")
	if !models.KnownList(list) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown list: " + list})
		return
	}

	doc, err := h.Store.RemoveFromList(c, claims.UserID, list, id)
	if err != nil {
		h.storeError(c, claims.UserID, list, err)
		return
	}

	remaining, _ := doc.ListAny(list)
	logger.Get().Info("entry deleted",
		zap.String("user_id", claims.UserID),
		zap.String("list", list),
		zap.String("entry_id", id))
	h.Broker.Publish(claims.UserID, events.Event{Type: events.TypeDashboardUpdated, List: list, EntryID: id})
	c.JSON(http.StatusOK, remaining)
}

func (h *Handlers) storeError(c *gin.Context, userID, list string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	logger.Get().Error("store error",
		zap.String("user_id", userID),
		zap.String("list", list),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// checkEditInvariants enforces the rules the store itself does not: category
// membership, non-negative debt amounts, one account per type, and unique
// (company, date) upcoming charges. excludeID skips the entry being updated.
// The uniqueness checks are find-then-append: two concurrent creates can both
// pass and the duplicate lands; the next edit surfaces it.
func (h *Handlers) checkEditInvariants(c *gin.Context, userID, list string, entry models.Entry, excludeID string) *editError {
	switch e := entry.(type) {
	case *models.Transaction:
		if !models.ValidCategory(e.Category) {
			return &editError{http.StatusBadRequest, "Unknown category: " + e.Category}
		}

	case *models.Debt:
		if e.CurrentPaid.IsNegative() || e.TotalAmount.IsNegative() {
			return &editError{http.StatusBadRequest, "Debt amounts must not be negative"}
		}

	case *models.UpcomingCharge:
		if !models.ValidCategory(e.Category) {
			return &editError{http.StatusBadRequest, "Unknown category: " + e.Category}
		}
		doc, err := h.Store.Find(c, userID)
		if err != nil {
			return &editError{http.StatusInternalServerError, err.Error()}
		}
		for _, existing := range doc.UpcomingCharges {
			if existing.ID != excludeID && existing.Company == e.Company && existing.Date == e.Date {
				return &editError{http.StatusConflict, "A charge for this company and date already exists"}
			}
		}

	case *models.Account:
		doc, err := h.Store.Find(c, userID)
		if err != nil {
			return &editError{http.StatusInternalServerError, err.Error()}
		}
		for _, existing := range doc.Accounts {
			if existing.ID != excludeID && existing.Type == e.Type {
				return &editError{http.StatusConflict, "An account of this type already exists"}
			}
		}
	}
	return nil
}
