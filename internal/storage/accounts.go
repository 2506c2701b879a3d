package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ledgersift/ledgersift/internal/model"
)

// SaveDetectedAccount persists one document's account detection result
// and returns its row ID.
func (s *SQLiteStorage) SaveDetectedAccount(ctx context.Context, userID string, account *model.DetectedAccount) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}
	if err := validateAccount(account); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO detected_accounts (
			user_id, institution_name, account_holder_name, account_number,
			card_number, account_type, account_subtype, account_name
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		userID,
		account.InstitutionName,
		account.AccountHolderName,
		account.AccountNumber,
		account.CardNumber,
		account.AccountType,
		account.AccountSubtype,
		account.AccountName,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert detected account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get detected account ID: %w", err)
	}
	return id, nil
}

// GetDetectedAccounts lists a user's detected accounts, newest first.
func (s *SQLiteStorage) GetDetectedAccounts(ctx context.Context, userID string) ([]model.DetectedAccount, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT institution_name, account_holder_name, account_number,
			card_number, account_type, account_subtype, account_name
		FROM detected_accounts
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query detected accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.DetectedAccount
	for rows.Next() {
		var a model.DetectedAccount
		var institution, holder, number, card, accType, subtype, name sql.NullString
		if err := rows.Scan(&institution, &holder, &number, &card, &accType, &subtype, &name); err != nil {
			return nil, fmt.Errorf("failed to scan detected account row: %w", err)
		}
		a.InstitutionName = institution.String
		a.AccountHolderName = holder.String
		a.AccountNumber = number.String
		a.CardNumber = card.String
		a.AccountType = accType.String
		a.AccountSubtype = subtype.String
		a.AccountName = name.String
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
