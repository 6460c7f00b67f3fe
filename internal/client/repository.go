package client

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("client not found")

const clientColumns = `
	id, nom, prenom, age,
	num_of_delayed_payment, changed_credit_limit, num_credit_inquiries,
	credit_mix, outstanding_debt, credit_utilization_ratio,
	credit_history_age, credit_history_age_months,
	payment_of_min_amount, total_emi_per_month, amount_invested_monthly,
	payment_behaviour, monthly_balance, credit_score,
	created_at, updated_at`

type ClientRepository struct{}

type ClientRepositoryInterface interface {
	Create(tx *sql.Tx, p *ClientPayload) (*Client, error)
	GetByID(db *sql.DB, id int) (*Client, error)
	Count(db *sql.DB, f ListFilter) (int, error)
	List(db *sql.DB, f ListFilter) ([]*Client, error)
	Update(tx *sql.Tx, id int, p *ClientPayload) (*Client, error)
	Delete(tx *sql.Tx, id int) error
	Statistics(db *sql.DB) (int, map[string]int, error)
}

func NewClientRepository() ClientRepositoryInterface {
	return &ClientRepository{}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanClient(row rowScanner) (*Client, error) {
	var c Client
	err := row.Scan(
		&c.ID,
		&c.Nom,
		&c.Prenom,
		&c.Age,
		&c.NumOfDelayedPayment,
		&c.ChangedCreditLimit,
		&c.NumCreditInquiries,
		&c.CreditMix,
		&c.OutstandingDebt,
		&c.CreditUtilizationRatio,
		&c.CreditHistoryAge,
		&c.CreditHistoryAgeMonths,
		&c.PaymentOfMinAmount,
		&c.TotalEmiPerMonth,
		&c.AmountInvestedMonthly,
		&c.PaymentBehaviour,
		&c.MonthlyBalance,
		&c.CreditScore,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new client; columns omitted from the payload become NULL.
// Identifier and timestamps are assigned by the database.
func (r *ClientRepository) Create(tx *sql.Tx, p *ClientPayload) (*Client, error) {
	query := `
		INSERT INTO clients (
			nom, prenom, age,
			num_of_delayed_payment, changed_credit_limit, num_credit_inquiries,
			credit_mix, outstanding_debt, credit_utilization_ratio,
			credit_history_age, credit_history_age_months,
			payment_of_min_amount, total_emi_per_month, amount_invested_monthly,
			payment_behaviour, monthly_balance, credit_score,
			created_at, updated_at
		)
		VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, NOW(), NOW()
		)
		RETURNING` + clientColumns

	row := tx.QueryRow(
		query,
		p.Nom,
		p.Prenom,
		p.Age,
		p.NumOfDelayedPayment,
		p.ChangedCreditLimit,
		p.NumCreditInquiries,
		p.CreditMix,
		p.OutstandingDebt,
		p.CreditUtilizationRatio,
		p.CreditHistoryAge,
		p.CreditHistoryAgeMonths,
		p.PaymentOfMinAmount,
		p.TotalEmiPerMonth,
		p.AmountInvestedMonthly,
		p.PaymentBehaviour,
		p.MonthlyBalance,
		p.CreditScore,
	)

	c, err := scanClient(row)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert client")
		return nil, err
	}

	return c, nil
}

func (r *ClientRepository) GetByID(db *sql.DB, id int) (*Client, error) {
	query := `SELECT` + clientColumns + `
		FROM clients
		WHERE id = $1`

	c, err := scanClient(db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logrus.WithError(err).Error("Failed to get client by ID")
		return nil, err
	}

	return c, nil
}

// buildWhere renders the conjunctive filter set. The returned clause is empty
// or starts with "WHERE"; args line up with the $n placeholders inside it.
func buildWhere(f ListFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if f.CreditMix != "" {
		args = append(args, f.CreditMix)
		conditions = append(conditions, fmt.Sprintf("credit_mix = $%d", len(args)))
	}
	if f.CreditScore != "" {
		args = append(args, f.CreditScore)
		conditions = append(conditions, fmt.Sprintf("credit_score = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(nom ILIKE $%d OR prenom ILIKE $%d)", n, n))
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// Count returns the number of rows matching the filters, before pagination.
func (r *ClientRepository) Count(db *sql.DB, f ListFilter) (int, error) {
	where, args := buildWhere(f)
	query := "SELECT COUNT(*) FROM clients " + where

	var total int
	if err := db.QueryRow(query, args...).Scan(&total); err != nil {
		logrus.WithError(err).Error("Failed to count clients")
		return 0, err
	}

	return total, nil
}

// List returns one page ordered by creation time, newest first. An offset
// past the end yields an empty page, not an error.
func (r *ClientRepository) List(db *sql.DB, f ListFilter) ([]*Client, error) {
	where, args := buildWhere(f)

	offset := (f.Page - 1) * f.PageSize
	args = append(args, offset)
	offsetN := len(args)
	args = append(args, f.PageSize)
	limitN := len(args)

	query := fmt.Sprintf(`SELECT%s
		FROM clients
		%s
		ORDER BY created_at DESC, id DESC
		OFFSET $%d LIMIT $%d`, clientColumns, where, offsetN, limitN)

	rows, err := db.Query(query, args...)
	if err != nil {
		logrus.WithError(err).Error("Failed to list clients")
		return nil, err
	}
	defer rows.Close()

	clients := make([]*Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return clients, nil
}

// Update overwrites exactly the columns present in the payload and refreshes
// updated_at. An empty payload still touches updated_at.
func (r *ClientRepository) Update(tx *sql.Tx, id int, p *ClientPayload) (*Client, error) {
	set := []string{}
	args := []interface{}{}

	for _, f := range p.updates() {
		args = append(args, f.value)
		set = append(set, fmt.Sprintf("%s = $%d", f.column, len(args)))
	}
	set = append(set, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE clients
		SET %s
		WHERE id = $%d
		RETURNING%s`, strings.Join(set, ", "), len(args), clientColumns)

	c, err := scanClient(tx.QueryRow(query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logrus.WithError(err).Error("Failed to update client")
		return nil, err
	}

	return c, nil
}

// Delete removes the row unconditionally. Missing id reports ErrNotFound.
func (r *ClientRepository) Delete(tx *sql.Tx, id int) error {
	result, err := tx.Exec(`DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to delete client")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Statistics groups the table by credit score. NULL scores land in the
// "unscored" bucket.
func (r *ClientRepository) Statistics(db *sql.DB) (int, map[string]int, error) {
	query := `
		SELECT COALESCE(credit_score, 'unscored'), COUNT(*)
		FROM clients
		GROUP BY COALESCE(credit_score, 'unscored')
	`

	rows, err := db.Query(query)
	if err != nil {
		logrus.WithError(err).Error("Failed to aggregate client statistics")
		return 0, nil, err
	}
	defer rows.Close()

	total := 0
	byScore := make(map[string]int)
	for rows.Next() {
		var score string
		var count int
		if err := rows.Scan(&score, &count); err != nil {
			return 0, nil, err
		}
		byScore[score] = count
		total += count
	}

	if err = rows.Err(); err != nil {
		return 0, nil, err
	}

	return total, byScore, nil
}
