package sidefx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hibiken/asynq"

	"github.com/medina-negoce/medina-erp/internal/bons"
)

// BonSource loads documents for the task handlers.
type BonSource interface {
	Get(ctx context.Context, id int64) (*bons.Bon, error)
}

// Processor holds the task handlers' dependencies.
type Processor struct {
	logger      *slog.Logger
	source      BonSource
	gateway     *WhatsAppGateway
	pdfDir      string
	companyName string
}

// NewProcessor constructs the task handlers. Rendered PDFs are archived
// under pdfDir.
func NewProcessor(logger *slog.Logger, source BonSource, gateway *WhatsAppGateway, pdfDir, companyName string) *Processor {
	return &Processor{
		logger:      logger,
		source:      source,
		gateway:     gateway,
		pdfDir:      pdfDir,
		companyName: companyName,
	}
}

// HandleBonPDF renders the document and archives the PDF.
func (p *Processor) HandleBonPDF(ctx context.Context, t *asynq.Task) error {
	var payload BonPDFPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	pdf, name, err := p.render(ctx, payload.BonID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(p.pdfDir, 0o755); err != nil {
		return fmt.Errorf("pdf dir: %w", err)
	}
	path := filepath.Join(p.pdfDir, name)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	p.logger.Info("bon pdf archived", slog.Int64("bon_id", payload.BonID), slog.String("path", path))
	return nil
}

// HandleBonWhatsApp renders the document and sends it to the phone.
func (p *Processor) HandleBonWhatsApp(ctx context.Context, t *asynq.Task) error {
	var payload BonWhatsAppPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if !p.gateway.Enabled() {
		p.logger.Warn("whatsapp delivery skipped, gateway not configured",
			slog.Int64("bon_id", payload.BonID))
		return nil
	}

	pdf, name, err := p.render(ctx, payload.BonID)
	if err != nil {
		return err
	}

	b, err := p.source.Get(ctx, payload.BonID)
	if err != nil {
		return err
	}
	caption := fmt.Sprintf("%s %s", b.Type, b.Numero)
	if err := p.gateway.SendDocument(ctx, payload.Phone, name, caption, pdf); err != nil {
		return err
	}
	p.logger.Info("bon sent", slog.Int64("bon_id", payload.BonID), slog.String("phone", payload.Phone))
	return nil
}

func (p *Processor) render(ctx context.Context, bonID int64) ([]byte, string, error) {
	b, err := p.source.Get(ctx, bonID)
	if err != nil {
		return nil, "", fmt.Errorf("get bon %d: %w", bonID, err)
	}
	pdf, err := RenderBonPDF(p.companyName, b)
	if err != nil {
		return nil, "", err
	}
	return pdf, b.Numero + ".pdf", nil
}

// Worker wraps the Asynq server for the side-effect queue.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

// NewWorker constructs a Worker processing the side-effect tasks.
func NewWorker(redisOpts asynq.RedisClientOpt, logger *slog.Logger, p *Processor) *Worker {
	srv := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			QueueDefault: 1,
		},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskBonPDF, p.HandleBonPDF)
	mux.HandleFunc(TaskBonWhatsApp, p.HandleBonWhatsApp)
	return &Worker{server: srv, mux: mux, logger: logger}
}

// Run processes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}
