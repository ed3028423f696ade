package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"finance-dashboard/api/events"
	"finance-dashboard/api/logger"
	"finance-dashboard/api/models"
	"finance-dashboard/api/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var csvHeader = []string{"id", "date", "company", "amount", "transactionType", "category"}

// ExportTransactionsCSV streams the transactions list as a CSV attachment.
func (h *Handlers) ExportTransactionsCSV(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	doc, err := h.Store.Find(c, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dashboard not provisioned"})
			return
		}
		logger.Get().Error("error fetching dashboard",
			zap.String("user_id", claims.UserID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(csvHeader)
	for _, tx := range doc.Transactions {
		writer.Write([]string{
			tx.ID,
			tx.Date,
			tx.Company,
			tx.Amount.String(),
			tx.TransactionType,
			tx.Category,
		})
	}
}

// ImportTransactionsCSV ingests a CSV body into the transactions list. Mode
// append adds every row, replace swaps the whole list, upsert overwrites rows
// whose id already exists and appends the rest.
func (h *Handlers) ImportTransactionsCSV(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		return
	}

	mode := c.DefaultQuery("mode", "append")
	if mode != "append" && mode != "replace" && mode != "upsert" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown import mode: " + mode})
		return
	}

	imported, err := parseTransactionsCSV(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.Store.Find(c, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dashboard not provisioned"})
			return
		}
		logger.Get().Error("error fetching dashboard",
			zap.String("user_id", claims.UserID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var merged []models.Transaction
	switch mode {
	case "append":
		merged = append(doc.Transactions, imported...)
	case "replace":
		merged = imported
	case "upsert":
		merged = doc.Transactions
		for _, tx := range imported {
			replaced := false
			if tx.ID != "" {
				for i := range merged {
					if merged[i].ID == tx.ID {
						merged[i] = tx
						replaced = true
						break
					}
				}
			}
			if !replaced {
				merged = append(merged, tx)
			}
		}
	}

	if err := h.Store.ReplaceTransactions(c, claims.UserID, merged); err != nil {
		logger.Get().Error("error importing transactions",
			zap.String("user_id", claims.UserID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logger.Get().Info("transactions imported",
		zap.String("user_id", claims.UserID),
		zap.String("mode", mode),
		zap.Int("count", len(imported)))
	h.Broker.Publish(claims.UserID, events.Event{Type: events.TypeDashboardUpdated, List: models.ListTransactions})
	c.JSON(http.StatusOK, gin.H{"imported": len(imported), "mode": mode})
}

func parseTransactionsCSV(r io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvHeader)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %v", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty CSV")
	}
	for i, col := range csvHeader {
		if records[0][i] != col {
			return nil, fmt.Errorf("unexpected CSV header, want %v", csvHeader)
		}
	}

	txs := make([]models.Transaction, 0, len(records)-1)
	for n, rec := range records[1:] {
		amount, err := models.NewMoney(rec[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: %v", n+2, err)
		}
		tx := models.Transaction{
			ID:              rec[0],
			Date:            rec[1],
			Company:         rec[2],
			Amount:          amount,
			TransactionType: rec[4],
			Category:        rec[5],
		}
		if _, err := time.Parse("2006-01-02", tx.Date); err != nil {
			return nil, fmt.Errorf("row %d: invalid date %q", n+2, tx.Date)
		}
		if tx.TransactionType != "income" && tx.TransactionType != "expense" {
			return nil, fmt.Errorf("row %d: invalid transaction type %q", n+2, tx.TransactionType)
		}
		if !models.ValidCategory(tx.Category) {
			return nil, fmt.Errorf("row %d: unknown category %q", n+2, tx.Category)
		}
		if tx.Company == "" {
			return nil, fmt.Errorf("row %d: missing company", n+2)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}
