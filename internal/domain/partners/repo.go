package partners

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("partners: application not found")

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const columns = `id, telegram_id, username,
	restaurant_name, owner_name, owner_email, owner_phone, whatsapp_updates,
	primary_contact, same_as_owner_mobile,
	cuisine_type, operation_hours, avg_meal_cost,
	has_license, has_food_safety_cert,
	status, created_at, updated_at`

func scan(row pgx.Row) (*Application, error) {
	var a Application
	if err := row.Scan(
		&a.ID, &a.TelegramID, &a.Username,
		&a.RestaurantName, &a.OwnerName, &a.OwnerEmail, &a.OwnerPhone, &a.WhatsappUpdates,
		&a.PrimaryContact, &a.SameAsOwnerMobile,
		&a.CuisineType, &a.OperationHours, &a.AvgMealCost,
		&a.HasLicense, &a.HasFoodSafetyCert,
		&a.Status, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create upserts by Telegram id: a partner re-submitting replaces the previous
// application and goes back to pending. An approved partner stays approved.
func (r *Repo) Create(ctx context.Context, a Application) (*Application, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO partner_applications (
			telegram_id, username,
			restaurant_name, owner_name, owner_email, owner_phone, whatsapp_updates,
			primary_contact, same_as_owner_mobile,
			cuisine_type, operation_hours, avg_meal_cost,
			has_license, has_food_safety_cert, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,'pending')
		ON CONFLICT (telegram_id) DO UPDATE SET
			username             = EXCLUDED.username,
			restaurant_name      = EXCLUDED.restaurant_name,
			owner_name           = EXCLUDED.owner_name,
			owner_email          = EXCLUDED.owner_email,
			owner_phone          = EXCLUDED.owner_phone,
			whatsapp_updates     = EXCLUDED.whatsapp_updates,
			primary_contact      = EXCLUDED.primary_contact,
			same_as_owner_mobile = EXCLUDED.same_as_owner_mobile,
			cuisine_type         = EXCLUDED.cuisine_type,
			operation_hours      = EXCLUDED.operation_hours,
			avg_meal_cost        = EXCLUDED.avg_meal_cost,
			has_license          = EXCLUDED.has_license,
			has_food_safety_cert = EXCLUDED.has_food_safety_cert,
			status               = CASE WHEN partner_applications.status = 'approved'
			                            THEN partner_applications.status ELSE 'pending' END,
			updated_at           = now()
		RETURNING `+columns,
		a.TelegramID, a.Username,
		a.RestaurantName, a.OwnerName, a.OwnerEmail, a.OwnerPhone, a.WhatsappUpdates,
		a.PrimaryContact, a.SameAsOwnerMobile,
		a.CuisineType, a.OperationHours, a.AvgMealCost,
		a.HasLicense, a.HasFoodSafetyCert,
	)
	out, err := scan(row)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return out, nil
}

func (r *Repo) GetByTelegramID(ctx context.Context, tgID int64) (*Application, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columns+` FROM partner_applications WHERE telegram_id = $1`, tgID)
	a, err := scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *Repo) SetStatus(ctx context.Context, tgID int64, status Status) (*Application, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE partner_applications SET status = $2, updated_at = now()
		WHERE telegram_id = $1
		RETURNING `+columns, tgID, string(status))
	a, err := scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// List returns the newest applications first. limit <= 0 means all.
func (r *Repo) List(ctx context.Context, limit int) ([]Application, error) {
	q := `SELECT ` + columns + ` FROM partner_applications ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
