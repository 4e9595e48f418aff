package api

import (
	"errors"
	"io"
	"net/http"

	"backend_trainerhub/models"
	"backend_trainerhub/services"

	"github.com/gin-gonic/gin"
)

type installmentRequest struct {
	Amount          FlexNumber `json:"amount"`
	Status          string     `json:"status"`
	PaidDate        *FlexDate  `json:"paidDate"`
	NextInstallment *FlexDate  `json:"nextInstallment"`
	PaymentMethod   string     `json:"paymentMethod"`
	Notes           string     `json:"notes"`
}

type subscriptionRequest struct {
	IsRenewal              FlexBool             `json:"isRenewal"`
	OriginalSubscriptionID FlexID               `json:"originalSubscriptionId"`
	ClientID               FlexID               `json:"clientId"`
	PackageID              FlexID               `json:"packageId"`
	StartDate              *FlexDate            `json:"startDate"`
	EndDate                *FlexDate            `json:"endDate"`
	DurationValue          FlexNumber           `json:"durationValue"`
	DurationUnit           string               `json:"durationUnit"`
	PaymentStatus          string               `json:"paymentStatus"`
	PaymentMethod          string               `json:"paymentMethod"`
	PriceBeforeDiscount    FlexNumber           `json:"priceBeforeDiscount"`
	DiscountApplied        FlexBool             `json:"discountApplied"`
	DiscountType           *string              `json:"discountType"`
	DiscountKind           *string              `json:"discountKind"`
	DiscountValue          FlexNumber           `json:"discountValue"`
	PriceAfterDiscount     FlexNumber           `json:"priceAfterDiscount"`
	Installments           []installmentRequest `json:"installments"`
}

func (r subscriptionRequest) discount() services.DiscountInput {
	kind := r.DiscountType
	if kind == nil {
		kind = r.DiscountKind
	}
	return services.DiscountInput{
		Applied:    bool(r.DiscountApplied),
		Kind:       kind,
		Value:      r.DiscountValue.Ptr(),
		PriceAfter: r.PriceAfterDiscount.Ptr(),
	}
}

func (r subscriptionRequest) installments() []services.InstallmentInput {
	inputs := make([]services.InstallmentInput, 0, len(r.Installments))
	for _, installment := range r.Installments {
		inputs = append(inputs, services.InstallmentInput{
			Amount:          installment.Amount.Value,
			Status:          models.InstallmentStatus(installment.Status),
			PaidDate:        installment.PaidDate.Ptr(),
			NextInstallment: installment.NextInstallment.Ptr(),
			PaymentMethod:   installment.PaymentMethod,
			Notes:           installment.Notes,
		})
	}
	return inputs
}

func dateValue(d *FlexDate) FlexDate {
	if d == nil {
		return FlexDate{}
	}
	return *d
}

// CreateSubscription создает подписку или продлевает существующую
// POST /api/subscriptions
func (h *Handlers) CreateSubscription(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Некорректные входные данные: "+err.Error())
		return
	}
	trainerID := GetTrainerID(c)

	if req.IsRenewal {
		subscription, err := h.subscriptions.Renew(c.Request.Context(), services.RenewSubscriptionInput{
			TrainerID:           trainerID,
			SubscriptionID:      uint(req.OriginalSubscriptionID),
			StartDate:           req.StartDate.Ptr(),
			EndDate:             dateValue(req.EndDate).Time,
			DurationValue:       req.DurationValue.Int(),
			DurationUnit:        req.DurationUnit,
			PaymentStatus:       req.PaymentStatus,
			PaymentMethod:       req.PaymentMethod,
			PriceBeforeDiscount: req.PriceBeforeDiscount.Ptr(),
			Discount:            req.discount(),
			Installments:        req.installments(),
		})
		if err != nil {
			respondError(c, err)
			return
		}
		SuccessResponse(c, http.StatusOK, gin.H{"subscription": subscription, "isRenewal": true})
		return
	}

	subscription, err := h.subscriptions.Create(c.Request.Context(), services.CreateSubscriptionInput{
		TrainerID:           trainerID,
		ClientID:            uint(req.ClientID),
		PackageID:           uint(req.PackageID),
		StartDate:           dateValue(req.StartDate).Time,
		EndDate:             dateValue(req.EndDate).Time,
		DurationValue:       req.DurationValue.Int(),
		DurationUnit:        req.DurationUnit,
		PaymentStatus:       req.PaymentStatus,
		PaymentMethod:       req.PaymentMethod,
		PriceBeforeDiscount: req.PriceBeforeDiscount.Ptr(),
		Discount:            req.discount(),
		Installments:        req.installments(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, gin.H{"subscription": subscription, "isRenewal": false})
}

// GetSubscription возвращает подписку с рассрочкой
// GET /api/subscriptions/:id
func (h *Handlers) GetSubscription(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	subscription, err := h.subscriptions.Get(c.Request.Context(), GetTrainerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, subscription)
}

// ListClientSubscriptions возвращает подписки клиента
// GET /api/clients/:id/subscriptions
func (h *Handlers) ListClientSubscriptions(c *gin.Context) {
	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	subscriptions, err := h.subscriptions.ListForClient(c.Request.Context(), GetTrainerID(c), clientID)
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, subscriptions)
}

type holdRequest struct {
	HoldDuration     FlexNumber `json:"holdDuration"`
	HoldDurationUnit string     `json:"holdDurationUnit"`
	Reason           string     `json:"reason"`
}

// HoldSubscription замораживает подписку
// POST /api/subscriptions/:id/hold
func (h *Handlers) HoldSubscription(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req holdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Некорректные входные данные: "+err.Error())
		return
	}

	subscription, err := h.subscriptions.Hold(c.Request.Context(), services.HoldSubscriptionInput{
		TrainerID:      GetTrainerID(c),
		SubscriptionID: id,
		Duration:       req.HoldDuration.Int(),
		Unit:           req.HoldDurationUnit,
		Reason:         req.Reason,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, subscription)
}

type cancelRequest struct {
	CancelDate   *FlexDate  `json:"cancelDate"`
	CancelReason string     `json:"cancelReason"`
	RefundType   string     `json:"refundType"`
	RefundAmount FlexNumber `json:"refundAmount"`
}

// CancelSubscription отменяет подписку с возможным возвратом
// POST /api/subscriptions/:id/cancel
func (h *Handlers) CancelSubscription(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Некорректные входные данные: "+err.Error())
		return
	}

	subscription, err := h.subscriptions.Cancel(c.Request.Context(), services.CancelSubscriptionInput{
		TrainerID:      GetTrainerID(c),
		SubscriptionID: id,
		CancelDate:     dateValue(req.CancelDate).Time,
		Reason:         req.CancelReason,
		RefundKind:     req.RefundType,
		RefundAmount:   req.RefundAmount.Ptr(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, subscription)
}

type payInstallmentRequest struct {
	PaidDate      *FlexDate `json:"paidDate"`
	PaymentMethod string    `json:"paymentMethod"`
}

// PayInstallment отмечает платеж по рассрочке оплаченным
// POST /api/installments/:id/pay
func (h *Handlers) PayInstallment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req payInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		ErrorResponse(c, http.StatusBadRequest, "Некорректные входные данные: "+err.Error())
		return
	}

	installment, err := h.subscriptions.PayInstallment(c.Request.Context(), services.PayInstallmentInput{
		TrainerID:     GetTrainerID(c),
		InstallmentID: id,
		PaidDate:      req.PaidDate.Ptr(),
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, installment)
}
