package handlers

import (
	"image"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"order_kiosk/internal/notify"
)

func (h *Handler) PrinterStatus(c *gin.Context) {
	state := h.store.PrinterState()
	c.JSON(http.StatusOK, gin.H{
		"paperOut":    state.PaperOut,
		"overheat":    state.Overheat,
		"holdJobs":    state.HoldJobs,
		"pendingJobs": h.printer.Pending(),
	})
}

// PaperOut is reported by the register when the printer signals an empty
// roll. New receipts hold until PaperReplaced.
func (h *Handler) PaperOut(c *gin.Context) {
	h.store.SetPaperOut(true)
	h.publish(notify.EventPrinterStatus, h.store.PrinterState())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// PaperReplaced clears the paper-out flag and releases held receipts.
func (h *Handler) PaperReplaced(c *gin.Context) {
	h.store.SetPaperOut(false)
	released := h.printer.ReleaseHeld()
	h.publish(notify.EventPrinterStatus, h.store.PrinterState())
	c.JSON(http.StatusOK, gin.H{"released": released})
}

func (h *Handler) GetLogo(c *gin.Context) {
	if _, err := os.Stat(h.logoPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no logo uploaded"})
		return
	}
	c.File(h.logoPath)
}

// PutLogo stores the uploaded receipt logo and hot-swaps it into the
// pipeline. PNG and JPEG are accepted; it is re-encoded to PNG on disk.
func (h *Handler) PutLogo(c *gin.Context) {
	img, _, err := image.Decode(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not a decodable image: " + err.Error()})
		return
	}
	f, err := os.Create(h.logoPath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.printer.SetLogo(img)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) TestPrint(c *gin.Context) {
	job, err := h.printer.EnqueueTestPage()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"printJobId": job.ID})
}
