package entries

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ajr-erp/ajr/internal/accounting/shared"
	"github.com/ajr-erp/ajr/internal/platform/httpx"
)

type lineRequest struct {
	AccountID    int64           `json:"account_id" validate:"required,gt=0"`
	Direction    Direction       `json:"direction" validate:"required,oneof=DEBIT CREDIT"`
	Amount       decimal.Decimal `json:"amount"`
	CostCenterID *int64          `json:"cost_center_id,omitempty" validate:"omitempty,gt=0"`
}

type createRequest struct {
	Date         string        `json:"date" validate:"required,datetime=2006-01-02"`
	BatchNumber  *string       `json:"batch_number,omitempty" validate:"omitempty,max=20"`
	ReasonCodeID int64         `json:"reason_code_id" validate:"required,gt=0"`
	Memo         *string       `json:"memo,omitempty" validate:"omitempty,max=500"`
	UserID       *int64        `json:"user_id,omitempty" validate:"omitempty,gt=0"`
	Lines        []lineRequest `json:"line_items" validate:"dive"`
}

type patchRequest struct {
	Date         *string        `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BatchNumber  *string        `json:"batch_number,omitempty" validate:"omitempty,max=20"`
	ReasonCodeID *int64         `json:"reason_code_id,omitempty" validate:"omitempty,gt=0"`
	Memo         *string        `json:"memo,omitempty" validate:"omitempty,max=500"`
	Lines        *[]lineRequest `json:"line_items,omitempty" validate:"omitempty,dive"`
}

type linesRequest struct {
	Lines []lineRequest `json:"line_items" validate:"dive"`
}

func toLineInputs(in []lineRequest) []LineInput {
	out := make([]LineInput, 0, len(in))
	for _, l := range in {
		out = append(out, LineInput{
			AccountID:    l.AccountID,
			Direction:    l.Direction,
			Amount:       l.Amount,
			CostCenterID: l.CostCenterID,
		})
	}
	return out
}

func (r createRequest) toInput() (CreateInput, error) {
	if err := httpx.Validate(r); err != nil {
		return CreateInput{}, err
	}
	date, err := shared.ParseDate(r.Date)
	if err != nil {
		return CreateInput{}, err
	}
	return CreateInput{
		Date:         date,
		BatchNumber:  r.BatchNumber,
		ReasonCodeID: r.ReasonCodeID,
		Memo:         r.Memo,
		UserID:       r.UserID,
		Lines:        toLineInputs(r.Lines),
	}, nil
}

// toUpdate treats a PUT body as a full replacement of header and lines.
func (r createRequest) toUpdate() (EntryUpdate, error) {
	in, err := r.toInput()
	if err != nil {
		return EntryUpdate{}, err
	}
	lines := in.Lines
	if lines == nil {
		lines = []LineInput{}
	}
	return EntryUpdate{
		Date:         &in.Date,
		BatchNumber:  in.BatchNumber,
		ReasonCodeID: &in.ReasonCodeID,
		Memo:         in.Memo,
		Lines:        lines,
	}, nil
}

func (r patchRequest) toUpdate() (EntryUpdate, error) {
	if err := httpx.Validate(r); err != nil {
		return EntryUpdate{}, err
	}
	upd := EntryUpdate{
		BatchNumber:  r.BatchNumber,
		ReasonCodeID: r.ReasonCodeID,
		Memo:         r.Memo,
	}
	if r.Date != nil {
		d, err := shared.ParseDate(*r.Date)
		if err != nil {
			return EntryUpdate{}, err
		}
		upd.Date = &d
	}
	if r.Lines != nil {
		upd.Lines = toLineInputs(*r.Lines)
	}
	return upd, nil
}

type lineResponse struct {
	ID           int64     `json:"id"`
	EntryID      int64     `json:"entry_id"`
	Position     int       `json:"position"`
	AccountID    int64     `json:"account_id"`
	Direction    Direction `json:"direction"`
	Amount       string    `json:"amount"`
	CostCenterID *int64    `json:"cost_center_id,omitempty"`
}

type entryResponse struct {
	ID           int64          `json:"id"`
	Date         string         `json:"date"`
	BatchNumber  *string        `json:"batch_number,omitempty"`
	ReasonCodeID int64          `json:"reason_code_id"`
	Memo         *string        `json:"memo,omitempty"`
	UserID       *int64         `json:"user_id,omitempty"`
	Status       Status         `json:"status"`
	DebitTotal   string         `json:"debit_total"`
	CreditTotal  string         `json:"credit_total"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    *time.Time     `json:"updated_at,omitempty"`
	Lines        []lineResponse `json:"line_items"`
}

func toLineResponse(l LineItem) lineResponse {
	return lineResponse{
		ID:           l.ID,
		EntryID:      l.EntryID,
		Position:     l.Position,
		AccountID:    l.AccountID,
		Direction:    l.Direction,
		Amount:       shared.FormatAmount(l.Amount),
		CostCenterID: l.CostCenterID,
	}
}

func toEntryResponse(e Entry) entryResponse {
	totals := e.Totals()
	lines := make([]lineResponse, 0, len(e.Lines))
	for _, l := range e.Lines {
		lines = append(lines, toLineResponse(l))
	}
	return entryResponse{
		ID:           e.ID,
		Date:         e.Date.Format(shared.DateLayout),
		BatchNumber:  e.BatchNumber,
		ReasonCodeID: e.ReasonCodeID,
		Memo:         e.Memo,
		UserID:       e.UserID,
		Status:       e.Status,
		DebitTotal:   shared.FormatAmount(totals.Debit),
		CreditTotal:  shared.FormatAmount(totals.Credit),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
		Lines:        lines,
	}
}
