package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"order_kiosk/internal/export"
	"order_kiosk/internal/models"
	"order_kiosk/internal/notify"
	"order_kiosk/internal/store"
)

func (h *Handler) ListMain(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.store.MenuByCategory(models.CategoryMain)})
}

func (h *Handler) ListSide(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.store.MenuByCategory(models.CategorySide)})
}

func (h *Handler) UpsertMain(c *gin.Context) {
	h.upsertProducts(c, h.store.UpsertMainItems)
}

func (h *Handler) UpsertSide(c *gin.Context) {
	h.upsertProducts(c, h.store.UpsertSideItems)
}

func (h *Handler) upsertProducts(c *gin.Context, upsert func([]store.MenuUpsert) ([]models.MenuItem, error)) {
	var req struct {
		Items []store.MenuUpsert `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	items, err := upsert(req.Items)
	if err != nil {
		h.orderError(c, err)
		return
	}
	h.publish(notify.EventSyncSnapshot, h.store.View())
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"settings": h.store.Settings()})
}

func (h *Handler) UpdateChinchiro(c *gin.Context) {
	var cfg models.ChinchiroSettings
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	settings, err := h.store.UpdateChinchiro(cfg)
	if err != nil {
		h.orderError(c, err)
		return
	}
	h.publish(notify.EventSyncSnapshot, h.store.View())
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *Handler) UpdateQRPrint(c *gin.Context) {
	var cfg models.QRPrintSettings
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	settings, err := h.store.UpdateQRPrint(cfg)
	if err != nil {
		h.orderError(c, err)
		return
	}
	h.publish(notify.EventSyncSnapshot, h.store.View())
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *Handler) UpdateSystemSettings(c *gin.Context) {
	var u store.SystemSettingsUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	settings, err := h.store.UpdateSystemSettings(u)
	if err != nil {
		h.orderError(c, err)
		return
	}
	h.publish(notify.EventSyncSnapshot, h.store.View())
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// SalesSummary returns the running aggregates; ?rebuild=1 recomputes them
// from the order lists first.
func (h *Handler) SalesSummary(c *gin.Context) {
	if c.Query("rebuild") != "" {
		c.JSON(http.StatusOK, gin.H{"summary": h.store.RecalculateSalesSummary()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": h.store.SalesSummary()})
}

func (h *Handler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="orders.csv"`)
	if err := export.OrdersCSV(c.Writer, h.store.View()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.store.MarkExported()
}

func (h *Handler) ExportSnapshot(c *gin.Context) {
	data, ok := h.store.SnapshotBytes()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot on disk yet"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="snapshot.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// Recover reloads state from disk. Success returns the timestamp of the
// newest record applied; failure leaves the in-memory state untouched.
func (h *Handler) Recover(c *gin.Context) {
	lastTs, err := h.store.Recover()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.publish(notify.EventSyncSnapshot, h.store.View())
	c.JSON(http.StatusOK, gin.H{"recoveredTo": lastTs})
}

func (h *Handler) EndSession(c *gin.Context) {
	session, err := h.store.EndSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.publish(notify.EventSessionEnded, session)
	c.JSON(http.StatusOK, gin.H{"session": session})
}

func (h *Handler) SystemReset(c *gin.Context) {
	if err := h.store.SystemReset(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.publish(notify.EventSystemReset, h.store.View())
	c.JSON(http.StatusOK, gin.H{"reset": true})
}

// APCycle acknowledges the legacy access-point restart button. Network
// management moved off this box, so it is a no-op kept for old panels.
func (h *Handler) APCycle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
