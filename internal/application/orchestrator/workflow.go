package orchestrator

import (
	"context"
	"fmt"

	"github.com/lite-lake/namesilo-ddns/internal/domain"
	"github.com/lite-lake/namesilo-ddns/internal/domain/contract"
	"github.com/lite-lake/namesilo-ddns/internal/domain/entity"
	"github.com/lite-lake/namesilo-ddns/internal/domain/service"
	"github.com/lite-lake/namesilo-ddns/internal/domain/valueobject"
	"github.com/lite-lake/namesilo-ddns/internal/infrastructure/dns"
	"github.com/lite-lake/namesilo-ddns/internal/infrastructure/ipresolver"
	"github.com/lite-lake/namesilo-ddns/internal/infrastructure/logger"
)

const (
	ExitOK      = 0
	ExitFailure = 1
)

// Result is what a run hands back to the CLI. Err holds the error that
// stopped or failed the run, if any.
type Result struct {
	ExitStatus int
	Outcomes   valueobject.Outcomes
	Err        error
}

type Workflow struct {
	cfg        *entity.Config
	resolver   contract.IPResolver
	stores     contract.RecordStoreFactory
	reconciler *service.Reconciler
	log        *logger.Logger
}

type Option func(*Workflow)

func WithResolver(r contract.IPResolver) Option {
	return func(w *Workflow) {
		w.resolver = r
	}
}

func WithRecordStores(f contract.RecordStoreFactory) Option {
	return func(w *Workflow) {
		w.stores = f
	}
}

func WithReconciler(r *service.Reconciler) Option {
	return func(w *Workflow) {
		w.reconciler = r
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(w *Workflow) {
		w.log = l
	}
}

// NewWorkflow wires the NameSilo client and the HTTP address lookup for cfg
// unless options replace them.
func NewWorkflow(cfg *entity.Config, opts ...Option) *Workflow {
	w := &Workflow{cfg: cfg}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logger.L()
	}
	if w.resolver == nil {
		w.resolver = ipresolver.New(cfg.HTTPTimeout)
	}
	if w.stores == nil {
		w.stores = dns.NewRecordStoreFactory(cfg.APIBase, cfg.HTTPTimeout)
	}
	if w.reconciler == nil {
		w.reconciler = service.NewReconciler(w.log.Named("reconciler"))
	}
	return w
}

// Run reconciles every configured domain in file order.
func (w *Workflow) Run(ctx context.Context) Result {
	ctx = logger.WithOperation(logger.ContextWithLogger(ctx, w.log), "run")

	w.log.Info("Starting DNS update")
	res := w.walk(ctx, false)
	if res.Err == nil || (w.cfg.ContinueOnFetchError && domain.IsFatal(res.Err)) {
		w.log.Info("Finished DNS update")
	}
	return res
}

// Plan reports what Run would do without creating or updating records.
func (w *Workflow) Plan(ctx context.Context) Result {
	ctx = logger.WithOperation(logger.ContextWithLogger(ctx, w.log), "plan")
	return w.walk(ctx, true)
}

func (w *Workflow) walk(ctx context.Context, dryRun bool) Result {
	res := Result{ExitStatus: ExitOK}

	for _, d := range w.cfg.Domains {
		if err := ctx.Err(); err != nil {
			return w.canceled(res, err)
		}

		dctx := logger.WithDomain(ctx, d.Name)
		store := w.stores(d.Name, d.Key)

		for _, recordType := range d.RecordTypes() {
			ip, err := w.resolver.Resolve(dctx, w.cfg.Server(recordType))
			if err != nil {
				if ctx.Err() != nil {
					return w.canceled(res, ctx.Err())
				}
				w.log.Error(fmt.Sprintf("Could not determine the public %s address for %s", recordType.Family(), d.Name),
					"server", w.cfg.Server(recordType), "error", err)
				res.Outcomes = append(res.Outcomes, valueobject.Outcome{
					Domain:    d.Name,
					Subdomain: d.Subdomain,
					Type:      recordType,
					Action:    valueobject.ActionFailed,
					Err:       err,
					DryRun:    dryRun,
				})
				continue
			}

			var outcome valueobject.Outcome
			if dryRun {
				outcome, err = w.reconciler.Plan(dctx, d, store, recordType, ip)
			} else {
				outcome, err = w.reconciler.Reconcile(dctx, d, store, recordType, ip)
			}
			res.Outcomes = append(res.Outcomes, outcome)
			if ctx.Err() != nil {
				return w.canceled(res, ctx.Err())
			}
			if err == nil {
				continue
			}

			w.log.Error(fmt.Sprintf("Error while fetching data for domain %s!", d.Name), "error", err)
			res.ExitStatus = ExitFailure
			if res.Err == nil {
				res.Err = err
			}
			if !w.cfg.ContinueOnFetchError {
				return res
			}
			break
		}
	}

	if err := ctx.Err(); err != nil {
		return w.canceled(res, err)
	}
	return res
}

func (w *Workflow) canceled(res Result, err error) Result {
	w.log.Warn("DNS update interrupted", "error", err)
	res.ExitStatus = ExitFailure
	res.Err = err
	return res
}
