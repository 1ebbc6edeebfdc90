// Package handlers wires the HTTP API onto the store and print pipeline.
package handlers

import (
	"image"
	"net/http"

	"github.com/gin-gonic/gin"

	"order_kiosk/internal/models"
	"order_kiosk/internal/notify"
	"order_kiosk/internal/printing"
	"order_kiosk/internal/store"
)

// Printer is the slice of the print pipeline the handlers need.
type Printer interface {
	Enqueue(order models.Order) (printing.Job, error)
	EnqueueTestPage() (printing.Job, error)
	Pending() int
	ReleaseHeld() int
	SetLogo(img image.Image)
}

type Handler struct {
	store    *store.Store
	printer  Printer
	sink     notify.Sink
	hub      *notify.Hub
	logoPath string
}

func New(st *store.Store, printer Printer, sink notify.Sink, hub *notify.Hub, logoPath string) *Handler {
	return &Handler{store: st, printer: printer, sink: sink, hub: hub, logoPath: logoPath}
}

func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.GET("/ping", h.Ping)
		api.GET("/state", h.State)

		api.POST("/orders", h.CreateOrder)
		api.POST("/orders/update", h.UpdateOrder)
		api.GET("/orders/detail", h.OrderDetail)
		api.POST("/orders/cancel", h.CancelOrder)
		api.POST("/orders/:orderNo/cooked", h.MarkCooked)
		api.POST("/orders/:orderNo/picked", h.MarkPicked)
		api.POST("/orders/reprint", h.Reprint)
		api.POST("/orders/archive", h.ArchiveOrder)
		api.GET("/call-list", h.CallList)

		api.GET("/products/main", h.ListMain)
		api.POST("/products/main", h.UpsertMain)
		api.GET("/products/side", h.ListSide)
		api.POST("/products/side", h.UpsertSide)

		api.GET("/settings", h.GetSettings)
		api.POST("/settings/chinchiro", h.UpdateChinchiro)
		api.POST("/settings/qrprint", h.UpdateQRPrint)
		api.POST("/settings/system", h.UpdateSystemSettings)

		api.GET("/sales/summary", h.SalesSummary)

		api.GET("/printer/status", h.PrinterStatus)
		api.POST("/printer/paper-out", h.PaperOut)
		api.POST("/printer/paper-replaced", h.PaperReplaced)
		api.GET("/printer/logo", h.GetLogo)
		api.PUT("/printer/logo", h.PutLogo)
		api.POST("/print/test", h.TestPrint)

		api.GET("/export/csv", h.ExportCSV)
		api.GET("/export/snapshot", h.ExportSnapshot)

		api.POST("/recover", h.Recover)
		api.POST("/session/end", h.EndSession)
		api.POST("/system/reset", h.SystemReset)
		api.POST("/system/ap-cycle", h.APCycle)
	}
	if h.hub != nil {
		r.GET("/ws", h.hub.HandleWS)
	}
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"pong": true})
}

// State returns the whole kiosk view for panel bootstrap.
func (h *Handler) State(c *gin.Context) {
	v := h.store.View()
	c.JSON(http.StatusOK, gin.H{
		"state":       v,
		"pendingJobs": h.printer.Pending(),
		"wsClients":   h.hub.ClientCount(),
	})
}

func (h *Handler) publish(eventType string, payload interface{}) {
	if h.sink != nil {
		h.sink.Publish(notify.Event{Type: eventType, Payload: payload})
	}
}
