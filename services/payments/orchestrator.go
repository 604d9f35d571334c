package payments

import (
	// Go Internal Packages
	"context"
	"strings"
	"time"

	// Local Packages
	errors "pay-broker/errors"
	helpers "pay-broker/helpers"
	models "pay-broker/models"
	utils "pay-broker/utils"

	// External Packages
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ledger persists one transaction per authority. Records are never updated.
type Ledger interface {
	InsertTransaction(ctx context.Context, tx models.Transaction) error
	FindTransaction(ctx context.Context, authority string) (models.Transaction, error)
}

// Gateway issues and verifies payment authorities.
type Gateway interface {
	RequestAuthority(ctx context.Context, description string, amount uint64) (string, error)
	Verify(ctx context.Context, authority string, amount uint64) error
}

// Registry knows the clients a referrer may pay for.
type Registry interface {
	ValidateClients(ctx context.Context, names []string, referrer string) error
	MakeClientPaid(ctx context.Context, name string) error
}

// AuditPublisher records workflow steps. It must not block or fail the caller.
type AuditPublisher interface {
	Publish(ctx context.Context, event models.AuditEvent)
}

// IncidentReporter hands CRITICAL failures over to operators.
type IncidentReporter interface {
	Report(ctx context.Context, incident models.CriticalIncident) error
}

type Config struct {
	UnitPrice uint64
}

// Orchestrator runs the create and verify workflows. Both only ever move a
// payment forward: nothing the gateway did is undone.
type Orchestrator struct {
	conf      Config
	logger    *zap.Logger
	critical  *zap.Logger
	ledger    Ledger
	gateway   Gateway
	registry  Registry
	audit     AuditPublisher
	incidents IncidentReporter
	now       func() time.Time
}

// NewOrchestrator wires the workflows. audit and incidents may be nil.
func NewOrchestrator(conf Config, logger *zap.Logger, ledger Ledger, gateway Gateway, registry Registry,
	audit AuditPublisher, incidents IncidentReporter) *Orchestrator {
	if audit == nil {
		audit = nopAudit{}
	}
	if incidents == nil {
		incidents = nopIncidents{}
	}
	return &Orchestrator{
		conf:      conf,
		logger:    logger,
		critical:  helpers.CriticalLogger(logger),
		ledger:    ledger,
		gateway:   gateway,
		registry:  registry,
		audit:     audit,
		incidents: incidents,
		now:       time.Now,
	}
}

// CreatePayment validates clients for referrer, requests an authority for
// their price and records it. The returned authority is the receipt for
// VerifyPayment.
func (o *Orchestrator) CreatePayment(ctx context.Context, referrer string, clients []string) (string, error) {
	event := models.AuditEvent{Referrer: referrer, Clients: clients}

	if len(clients) == 0 {
		return "", o.fail(ctx, event, errors.NoClientsErr())
	}
	for _, name := range clients {
		if strings.TrimSpace(name) == "" || strings.Contains(name, utils.NameSeparator) {
			return "", o.fail(ctx, event, errors.BadClientNameErr(name))
		}
	}

	// Once the gateway is involved, a dropped request must not stop the
	// remaining steps half way.
	ctx = context.WithoutCancel(ctx)

	if err := o.registry.ValidateClients(ctx, clients, referrer); err != nil {
		return "", o.fail(ctx, event, errors.ClientsNotValidErr(err))
	}

	price := CalculatePrice(len(clients), o.conf.UnitPrice)
	event.Amount = price.Total

	// The gateway call is made exactly once per request.
	authority, err := o.gateway.RequestAuthority(ctx, utils.JoinNames(clients), price.Total)
	if err != nil {
		return "", o.fail(ctx, event, errors.RequestPaymentErr(err))
	}
	event.Authority = authority
	o.publish(ctx, models.EventPaymentRequested, event, "")

	tx := models.Transaction{
		Authority:   authority,
		ClientNames: append([]string(nil), clients...),
		Amount:      price.Total,
		Referrer:    referrer,
		CreatedAt:   o.now(),
	}
	if err := o.record(ctx, tx); err != nil {
		err = errors.RecordTransactionErr(err)
		o.escalate(ctx, models.CriticalIncident{
			Stage:     models.StageRecord,
			Authority: authority,
			Referrer:  referrer,
			Clients:   tx.ClientNames,
			Amount:    tx.Amount,
		}, err)
		return "", err
	}

	o.publish(ctx, models.EventPaymentRecorded, event, "")
	o.logger.Info("payment created",
		zap.String("authority", authority),
		zap.String("referrer", referrer),
		zap.Strings("clients", clients),
		zap.Uint64("price", price.Base),
		zap.Uint64("tax", price.Tax),
		zap.Uint64("amount", price.Total),
	)
	return authority, nil
}

// record writes tx, retrying the write once. A duplicated authority is not
// retried. When the retry hits a duplicate, the first write may have landed
// despite its error, so the stored record is accepted if it is tx.
func (o *Orchestrator) record(ctx context.Context, tx models.Transaction) error {
	err := o.ledger.InsertTransaction(ctx, tx)
	if err == nil || errors.Is(err, errors.ErrDuplicateAuthority) {
		return err
	}

	o.logger.Warn("recording transaction failed, retrying once",
		zap.String("authority", tx.Authority), zap.Error(err))
	err = o.ledger.InsertTransaction(ctx, tx)
	if !errors.Is(err, errors.ErrDuplicateAuthority) {
		return err
	}

	stored, findErr := o.ledger.FindTransaction(ctx, tx.Authority)
	if findErr != nil || !sameTransaction(stored, tx) {
		return err
	}
	o.logger.Warn("transaction was recorded by the failed write", zap.String("authority", tx.Authority))
	return nil
}

func sameTransaction(a, b models.Transaction) bool {
	return a.Authority == b.Authority &&
		a.Amount == b.Amount &&
		a.Referrer == b.Referrer &&
		utils.JoinNames(a.ClientNames) == utils.JoinNames(b.ClientNames)
}

// VerifyPayment confirms authority with the gateway for the recorded amount
// and then marks each recorded client paid, in order, stopping at the first
// failure.
func (o *Orchestrator) VerifyPayment(ctx context.Context, authority string) error {
	event := models.AuditEvent{Authority: authority}

	tx, err := o.ledger.FindTransaction(ctx, authority)
	if err != nil {
		return o.fail(ctx, event, errors.FindAuthorityErr(err))
	}
	event.Referrer, event.Clients, event.Amount = tx.Referrer, tx.ClientNames, tx.Amount

	ctx = context.WithoutCancel(ctx)

	if err := o.gateway.Verify(ctx, authority, tx.Amount); err != nil {
		return o.fail(ctx, event, errors.VerifyPaymentErr(err))
	}
	o.publish(ctx, models.EventPaymentVerified, event, "")

	names := tx.ClientNames
	if len(names) == 0 {
		err := errors.EmptyRecordErr(authority)
		o.escalate(ctx, incidentFor(models.StageApply, tx), err)
		return err
	}

	for i, name := range names {
		if err := o.registry.MakeClientPaid(ctx, name); err != nil {
			applyErr := &errors.ApplyError{
				Name:         name,
				Position:     i + 1,
				Applied:      append([]string(nil), names[:i]...),
				NotAttempted: append([]string(nil), names[i+1:]...),
				Err:          err,
			}
			incident := incidentFor(models.StageApply, tx)
			incident.FailedName = applyErr.Name
			incident.Position = applyErr.Position
			incident.Applied = applyErr.Applied
			incident.NotAttempted = applyErr.NotAttempted

			critical := errors.ApplyPaymentErr(applyErr)
			o.escalate(ctx, incident, critical)
			return critical
		}

		paid := event
		paid.Clients = []string{name}
		o.publish(ctx, models.EventClientPaid, paid, "")
	}

	o.publish(ctx, models.EventPaymentApplied, event, "")
	o.logger.Info("payment verified",
		zap.String("authority", authority),
		zap.String("referrer", tx.Referrer),
		zap.Strings("clients", names),
		zap.Uint64("amount", tx.Amount),
	)
	return nil
}

func incidentFor(stage string, tx models.Transaction) models.CriticalIncident {
	return models.CriticalIncident{
		Stage:     stage,
		Authority: tx.Authority,
		Referrer:  tx.Referrer,
		Clients:   tx.ClientNames,
		Amount:    tx.Amount,
	}
}

// fail logs a recoverable business failure and passes err through.
func (o *Orchestrator) fail(ctx context.Context, event models.AuditEvent, err error) error {
	log := o.logger.Error
	if errors.KindOf(err) == errors.UnknownAuthority {
		log = o.logger.Warn
	}
	log("payment request failed",
		zap.String("kind", errors.KindOf(err).String()),
		zap.String("authority", event.Authority),
		zap.String("referrer", event.Referrer),
		zap.Strings("clients", event.Clients),
		zap.Error(err),
	)
	o.publish(ctx, models.EventPaymentFailed, event, err.Error())
	return err
}

// escalate reports a failure that happened after the gateway already acted.
// It is logged on the critical channel and queued for reconciliation.
func (o *Orchestrator) escalate(ctx context.Context, incident models.CriticalIncident, err error) {
	incident.Error = err.Error()
	incident.OccurredAt = o.now()

	o.critical.Error("payment needs manual reconciliation",
		zap.String("kind", errors.KindOf(err).String()),
		zap.String("stage", incident.Stage),
		zap.String("authority", incident.Authority),
		zap.String("referrer", incident.Referrer),
		zap.Strings("clients", incident.Clients),
		zap.Uint64("amount", incident.Amount),
		zap.String("failed_name", incident.FailedName),
		zap.Int("position", incident.Position),
		zap.Strings("applied", incident.Applied),
		zap.Strings("not_attempted", incident.NotAttempted),
		zap.Error(err),
	)

	if reportErr := o.incidents.Report(ctx, incident); reportErr != nil {
		o.critical.Error("cannot queue incident", zap.String("authority", incident.Authority), zap.Error(reportErr))
	}

	o.publish(ctx, models.EventPaymentCritical, models.AuditEvent{
		Authority: incident.Authority,
		Referrer:  incident.Referrer,
		Clients:   incident.Clients,
		Amount:    incident.Amount,
	}, err.Error())
}

func (o *Orchestrator) publish(ctx context.Context, typ models.AuditEventType, event models.AuditEvent, detail string) {
	event.ID = uuid.NewString()
	event.Type = typ
	event.Detail = detail
	event.Timestamp = o.now().UTC()
	o.audit.Publish(ctx, event)
}

type nopAudit struct{}

func (nopAudit) Publish(context.Context, models.AuditEvent) {}

type nopIncidents struct{}

func (nopIncidents) Report(context.Context, models.CriticalIncident) error { return nil }
