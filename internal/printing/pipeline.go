// Package printing runs the single-worker print queue feeding the
// receipt printer.
package printing

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/image/font"

	"order_kiosk/internal/escpos"
	"order_kiosk/internal/models"
	"order_kiosk/internal/notify"
	"order_kiosk/internal/render"
	"order_kiosk/internal/store"
	"order_kiosk/pkg/serialport"
)

// ErrQueueFull is returned when the job queue cannot accept more work.
var ErrQueueFull = errors.New("printing: queue full")

const queueCapacity = 256

// Pipeline owns the printer. One worker goroutine drains the queue so
// jobs never interleave on the serial line.
type Pipeline struct {
	store     *store.Store
	transport serialport.Transport
	sink      notify.Sink
	width     int

	mu   sync.Mutex
	face font.Face
	logo image.Image
	hold []Job

	queue chan Job
}

func New(st *store.Store, transport serialport.Transport, sink notify.Sink, face font.Face, width int) *Pipeline {
	if width <= 0 {
		width = escpos.DotWidth
	}
	return &Pipeline{
		store:     st,
		transport: transport,
		sink:      sink,
		face:      face,
		width:     width,
		queue:     make(chan Job, queueCapacity),
	}
}

// SetLogo swaps the receipt header logo at runtime.
func (p *Pipeline) SetLogo(img image.Image) {
	p.mu.Lock()
	p.logo = img
	p.mu.Unlock()
}

// Enqueue queues a receipt for the order. While the printer is out of
// paper the job parks on the hold list instead of burning a failed print.
func (p *Pipeline) Enqueue(order models.Order) (Job, error) {
	job := newJob(jobReceipt, order)
	if p.store.PrinterState().PaperOut {
		p.mu.Lock()
		p.hold = append(p.hold, job)
		held := len(p.hold)
		p.mu.Unlock()
		p.store.SetHoldJobs(held)
		log.Printf("[print] paper out, holding job %s for order %s", job.ID, order.OrderNo)
		return job, nil
	}
	select {
	case p.queue <- job:
		return job, nil
	default:
		return Job{}, ErrQueueFull
	}
}

// EnqueueTestPage queues a settings/diagnostics page.
func (p *Pipeline) EnqueueTestPage() (Job, error) {
	job := newJob(jobTest, models.Order{OrderNo: "TEST"})
	select {
	case p.queue <- job:
		return job, nil
	default:
		return Job{}, ErrQueueFull
	}
}

// Pending counts queued plus held jobs.
func (p *Pipeline) Pending() int {
	p.mu.Lock()
	held := len(p.hold)
	p.mu.Unlock()
	return len(p.queue) + held
}

// ReleaseHeld requeues jobs parked during a paper-out, in arrival order.
// Jobs that no longer fit stay held.
func (p *Pipeline) ReleaseHeld() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	released := 0
	for len(p.hold) > 0 {
		select {
		case p.queue <- p.hold[0]:
			p.hold = p.hold[1:]
			released++
		default:
			p.store.SetHoldJobs(len(p.hold))
			return released
		}
	}
	p.hold = nil
	p.store.SetHoldJobs(0)
	return released
}

// Run drains the queue until the context is cancelled. Call it from its
// own goroutine.
func (p *Pipeline) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.queue:
			p.process(job)
		}
	}
}

func (p *Pipeline) process(job Job) {
	var err error
	switch job.Kind {
	case jobTest:
		err = p.printTest()
	default:
		err = p.printReceipt(job.Order)
	}
	if err != nil {
		log.Printf("[print] job %s failed: %v", job.ID, err)
		p.publish(notify.EventPrintFailed, map[string]interface{}{
			"jobId": job.ID, "orderNo": job.Order.OrderNo, "error": err.Error(),
		})
		return
	}
	if job.Kind == jobReceipt {
		if _, err := p.store.UpdateOrderStatus(job.Order.OrderNo, "PRINTED"); err != nil {
			log.Printf("[print] mark printed %s: %v", job.Order.OrderNo, err)
		}
	}
	p.publish(notify.EventPrintPrinted, map[string]interface{}{
		"jobId": job.ID, "orderNo": job.Order.OrderNo,
	})
}

func (p *Pipeline) publish(eventType string, payload interface{}) {
	if p.sink != nil {
		p.sink.Publish(notify.Event{Type: eventType, Payload: payload})
	}
}

func (p *Pipeline) printReceipt(order models.Order) error {
	if err := p.printRaster(order); err != nil {
		log.Printf("[print] raster path failed for %s, falling back to text: %v", order.OrderNo, err)
		if terr := p.printText(order); terr != nil {
			return fmt.Errorf("raster: %v; text fallback: %w", err, terr)
		}
	}
	return nil
}

func (p *Pipeline) printRaster(order models.Order) error {
	p.mu.Lock()
	face, logo := p.face, p.logo
	p.mu.Unlock()

	settings := p.store.Settings()
	img, err := render.Receipt(order, render.Options{
		StoreName: settings.Store.Name,
		Footer:    "Thank you!",
		DateTime:  time.Now().Format("2006-01-02 15:04"),
		Logo:      logo,
		Face:      face,
		Width:     p.width,
	})
	if err != nil {
		return err
	}
	if err := p.transport.Write(escpos.Init()); err != nil {
		return err
	}
	if err := p.writeRaster(img); err != nil {
		return err
	}
	if settings.QRPrint.Enabled && settings.QRPrint.Content != "" {
		if qr, qerr := render.QR(settings.QRPrint.Content, p.width); qerr == nil {
			if err := p.writeRaster(qr); err != nil {
				return err
			}
		} else {
			log.Printf("[print] qr trailer skipped: %v", qerr)
		}
	}
	return p.cut()
}

func (p *Pipeline) writeRaster(img image.Image) error {
	for _, band := range escpos.EncodeRaster(img) {
		for _, chunk := range band.Chunks() {
			if err := p.transport.Write(chunk); err != nil {
				return err
			}
		}
		time.Sleep(band.Pacing())
	}
	return nil
}

func (p *Pipeline) printText(order models.Order) error {
	settings := p.store.Settings()
	name := settings.Store.NameRomaji
	if name == "" {
		name = settings.Store.Name
	}
	if err := p.transport.Write(escpos.Init()); err != nil {
		return err
	}
	if err := p.transport.Write(escpos.SanitizeASCII(render.TextTicket(order, name))); err != nil {
		return err
	}
	return p.cut()
}

func (p *Pipeline) printTest() error {
	settings := p.store.Settings()
	state := p.store.PrinterState()
	body := fmt.Sprintf("TEST PRINT\nstore: %s\nregister: %s\ncatalog v%d\npaperOut=%t overheat=%t\n%s\n",
		settings.Store.NameRomaji, settings.Store.RegisterID, settings.CatalogVersion,
		state.PaperOut, state.Overheat, time.Now().Format("2006-01-02 15:04:05"))
	if err := p.transport.Write(escpos.Init()); err != nil {
		return err
	}
	if err := p.transport.Write(escpos.SanitizeASCII(body)); err != nil {
		return err
	}
	return p.cut()
}

func (p *Pipeline) cut() error {
	if err := p.transport.Write(escpos.Cut()); err != nil {
		log.Printf("[print] GS V cut failed, trying ESC i: %v", err)
		return p.transport.Write(escpos.CutFallback())
	}
	return nil
}
