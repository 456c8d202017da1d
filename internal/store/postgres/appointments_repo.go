package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"barberboss/backend/internal/domain"
	"barberboss/backend/internal/store"
)

const (
	DefaultTxMaxWait = 5 * time.Second
	DefaultTxTimeout = 10 * time.Second
)

// overlapSQL is the three-way overlap test against columns starts_at/ends_at.
// Arguments: start, start, end, end, start, end.
const overlapSQL = "((starts_at <= ? AND ends_at > ?) OR (starts_at < ? AND ends_at >= ?) OR (starts_at >= ? AND ends_at <= ?))"

func overlapArgs(start, end time.Time) []any {
	return []any{start, start, end, end, start, end}
}

type TxConfig struct {
	MaxWait time.Duration
	Timeout time.Duration
}

type AppointmentRepo struct {
	db    *bun.DB
	txCfg TxConfig
}

func NewAppointmentRepo(db *bun.DB, cfg TxConfig) *AppointmentRepo {
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = DefaultTxMaxWait
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTxTimeout
	}
	return &AppointmentRepo{db: db, txCfg: cfg}
}

type schedulingTx struct {
	tx bun.Tx
}

func (r *AppointmentRepo) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	return getAppointment(ctx, r.db, id)
}

func (r *AppointmentRepo) List(ctx context.Context, f store.AppointmentFilter) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	q := r.db.NewSelect().
		Model(&rows).
		Where("starts_at < ?", f.WindowEnd).
		Where("ends_at > ?", f.WindowStart).
		OrderExpr("starts_at ASC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.BarberID != nil {
		q = q.Where("barber_id = ?", *f.BarberID)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Appointment)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *AppointmentRepo) ListActiveAppointments(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) ([]domain.Appointment, error) {
	return listActiveAppointments(ctx, r.db, start, end, excludeID)
}

func (r *AppointmentRepo) InSchedulingTx(ctx context.Context, fn func(ctx context.Context, tx store.SchedulingTx) error) error {
	ctx, cancel := context.WithTimeout(ctx, r.txCfg.Timeout)
	defer cancel()

	err := r.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(ctx context.Context, tx bun.Tx) error {
		for _, stmt := range schedulingPrelude(r.txCfg) {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return fn(ctx, schedulingTx{tx: tx})
	})
	return mapTxError(err)
}

// schedulingPrelude is run before the first query of a scheduling
// transaction. None of these statements takes a snapshot, so a transaction
// that waited on the table lock sees every row committed by the holder.
// SHARE ROW EXCLUSIVE conflicts with itself and with writers but not with
// plain reads.
func schedulingPrelude(cfg TxConfig) []string {
	return []string{
		fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", cfg.MaxWait.Milliseconds()),
		fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", cfg.Timeout.Milliseconds()),
		"LOCK TABLE appointments IN SHARE ROW EXCLUSIVE MODE",
	}
}

// mapTxError turns Postgres contention failures and the transaction deadline
// into store.ErrContention. Everything else is returned as is.
func mapTxError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03", "57014":
			return fmt.Errorf("%w: %s (%s)", store.ErrContention, pgErr.Message, pgErr.Code)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", store.ErrContention, err)
	}
	return err
}

// GetAppointment locks the row until the transaction ends.
func (t schedulingTx) GetAppointment(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var row domain.Appointment
	err := t.tx.NewSelect().
		Model(&row).
		Where("id = ?", id).
		For("UPDATE").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return row, nil
}

func (t schedulingTx) ListActiveAppointments(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) ([]domain.Appointment, error) {
	return listActiveAppointments(ctx, t.tx, start, end, excludeID)
}

func (t schedulingTx) ListBlockCandidates(ctx context.Context, start, end time.Time, weekday int) ([]domain.TimeBlock, error) {
	return listBlockCandidates(ctx, t.tx, start, end, weekday)
}

func (t schedulingTx) CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	m.CreatedAt = time.Time{}
	m.UpdatedAt = time.Time{}

	if _, err := t.tx.NewInsert().Model(&m).Exec(ctx); err != nil {
		return domain.Appointment{}, mapWriteError(err)
	}
	return m, nil
}

func (t schedulingTx) UpdateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	m := appt
	res, err := t.tx.NewUpdate().
		Model(&m).
		Column("client_id", "client_name", "service_id", "barber_id", "starts_at", "ends_at", "status", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return domain.Appointment{}, mapWriteError(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Appointment{}, err
	}
	if affected == 0 {
		return domain.Appointment{}, store.ErrNotFound
	}
	return m, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23P01" && pgErr.ConstraintName == "appointments_no_overlap" {
			return store.ErrConflict
		}
		if pgErr.Code == "23505" && pgErr.ConstraintName == "appointments_pkey" {
			return store.ErrIdempotencyConflict
		}
	}
	return err
}

func getAppointment(ctx context.Context, db bun.IDB, id uuid.UUID) (domain.Appointment, error) {
	var row domain.Appointment
	err := db.NewSelect().
		Model(&row).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return row, nil
}

func listActiveAppointments(ctx context.Context, db bun.IDB, start, end time.Time, excludeID *uuid.UUID) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	q := db.NewSelect().
		Model(&rows).
		Where("status NOT IN (?)", bun.In(domain.TerminalStatuses())).
		Where(overlapSQL, overlapArgs(start, end)...).
		OrderExpr("created_at ASC")
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}
