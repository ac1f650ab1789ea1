package repository

import (
	"context"
	"time"

	"genesis-api/internal/domain"
)

type CustomerRepository interface {
	Create(ctx context.Context, c domain.Customer) error
	List(ctx context.Context) ([]domain.Customer, error)
	GetByID(ctx context.Context, id string) (domain.Customer, error)
	Update(ctx context.Context, id string, patch domain.CustomerPatch, updatedAt time.Time) (domain.Customer, error)
	Delete(ctx context.Context, id string) error
}

type PgCustomerRepository struct {
	pool PgxPool
}

func NewPgCustomerRepository(pool PgxPool) *PgCustomerRepository {
	return &PgCustomerRepository{pool: pool}
}

const customerColumns = `
	id, company_name, address, phone_number, email, website, kvk_number, legal_form,
	main_activity, side_activities, dga, staff_fte, annual_turnover, gross_profit,
	payroll_year, description, visit_date, advisor, visit_location, visit_frequency,
	conversation_partner, comments, status, created_at, updated_at`

func (r *PgCustomerRepository) Create(ctx context.Context, c domain.Customer) error {
	const query = `
		INSERT INTO customers (
			id, company_name, address, phone_number, email, website, kvk_number, legal_form,
			main_activity, side_activities, dga, staff_fte, annual_turnover, gross_profit,
			payroll_year, description, visit_date, advisor, visit_location, visit_frequency,
			conversation_partner, comments, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25
		)
	`
	_, err := r.pool.Exec(ctx, query,
		c.ID, c.CompanyName, c.Address, c.PhoneNumber, c.Email, c.Website, c.KvkNumber, c.LegalForm,
		c.MainActivity, c.SideActivities, c.DGA, c.StaffFTE, c.AnnualTurnover, c.GrossProfit,
		c.PayrollYear, c.Description, c.VisitDate, c.Advisor, c.VisitLocation, c.VisitFrequency,
		c.ConversationPartner, c.Comments, string(c.Status), c.CreatedAt, c.UpdatedAt,
	)
	return pgError(err)
}

func (r *PgCustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	query := `SELECT` + customerColumns + ` FROM customers ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, pgError(err)
	}
	defer rows.Close()

	customers := make([]domain.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, pgError(err)
	}
	return customers, nil
}

func (r *PgCustomerRepository) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	query := `SELECT` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.pool.QueryRow(ctx, query, id))
}

// Update aplica solo los campos no nulos del patch en una sentencia.
func (r *PgCustomerRepository) Update(ctx context.Context, id string, p domain.CustomerPatch, updatedAt time.Time) (domain.Customer, error) {
	var status *string
	if p.Status != nil {
		s := string(*p.Status)
		status = &s
	}
	query := `
		UPDATE customers SET
			company_name = COALESCE($2, company_name),
			address = COALESCE($3, address),
			phone_number = COALESCE($4, phone_number),
			email = COALESCE($5, email),
			website = COALESCE($6, website),
			kvk_number = COALESCE($7, kvk_number),
			legal_form = COALESCE($8, legal_form),
			main_activity = COALESCE($9, main_activity),
			side_activities = COALESCE($10, side_activities),
			dga = COALESCE($11, dga),
			staff_fte = COALESCE($12, staff_fte),
			annual_turnover = COALESCE($13, annual_turnover),
			gross_profit = COALESCE($14, gross_profit),
			payroll_year = COALESCE($15, payroll_year),
			description = COALESCE($16, description),
			visit_date = COALESCE($17, visit_date),
			advisor = COALESCE($18, advisor),
			visit_location = COALESCE($19, visit_location),
			visit_frequency = COALESCE($20, visit_frequency),
			conversation_partner = COALESCE($21, conversation_partner),
			comments = COALESCE($22, comments),
			status = COALESCE($23, status),
			updated_at = $24
		WHERE id = $1
		RETURNING` + customerColumns
	row := r.pool.QueryRow(ctx, query,
		id, p.CompanyName, p.Address, p.PhoneNumber, p.Email, p.Website, p.KvkNumber, p.LegalForm,
		p.MainActivity, p.SideActivities, p.DGA, p.StaffFTE, p.AnnualTurnover, p.GrossProfit,
		p.PayrollYear, p.Description, p.VisitDate, p.Advisor, p.VisitLocation, p.VisitFrequency,
		p.ConversationPartner, p.Comments, status, updatedAt,
	)
	return scanCustomer(row)
}

func (r *PgCustomerRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return pgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCustomer(row rowScanner) (domain.Customer, error) {
	var (
		c      domain.Customer
		status string
	)
	err := row.Scan(
		&c.ID, &c.CompanyName, &c.Address, &c.PhoneNumber, &c.Email, &c.Website, &c.KvkNumber, &c.LegalForm,
		&c.MainActivity, &c.SideActivities, &c.DGA, &c.StaffFTE, &c.AnnualTurnover, &c.GrossProfit,
		&c.PayrollYear, &c.Description, &c.VisitDate, &c.Advisor, &c.VisitLocation, &c.VisitFrequency,
		&c.ConversationPartner, &c.Comments, &status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return domain.Customer{}, pgError(err)
	}
	c.Status = domain.CustomerStatus(status)
	return c, nil
}
