package wizard

import (
	"github.com/google/uuid"

	"github.com/washday/laundry-backend/pkg/enums"
)

const (
	NoticeAccountCreated         = "account_created"
	NoticeAccountSetupIncomplete = "account_setup_incomplete"
)

// Result is the read-only projection shown once the order is placed.
type Result struct {
	ConfirmationMessage string              `json:"confirmation_message"`
	OrderTotal          string              `json:"order_total"`
	Weight              enums.WeightBracket `json:"weight"`
	ServiceType         enums.ServiceType   `json:"service_type"`
	Address             string              `json:"address"`
	OrderID             *uuid.UUID          `json:"order_id,omitempty"`
	AccountNotice       string              `json:"account_notice,omitempty"`
}

// Result projects the terminal wizard. It fails until payment has succeeded.
func (w *Wizard) Result() (Result, error) {
	if !w.Completed() || w.Outcome == nil {
		return Result{}, ErrNotCompleted
	}
	return Result{
		ConfirmationMessage: w.Outcome.ConfirmationMessage,
		OrderTotal:          w.Outcome.OrderTotal,
		Weight:              w.Draft.Weight,
		ServiceType:         w.Draft.ServiceType,
		Address:             w.Draft.Address(),
		OrderID:             w.Outcome.OrderID,
		AccountNotice:       w.Outcome.AccountNotice,
	}, nil
}
