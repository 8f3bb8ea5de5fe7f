package handlers

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"homecare-rental/internal/config"
	"homecare-rental/internal/models"
	"homecare-rental/internal/notifier"
	"homecare-rental/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MidtransNotification holds the webhook fields used to settle a payment.
type MidtransNotification struct {
	TransactionStatus string `json:"transaction_status"`
	OrderID           string `json:"order_id"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
}

// signed checks the notification signature:
// sha512(order_id + status_code + gross_amount + server key), hex encoded.
// Nothing verifies without a server key.
func (n MidtransNotification) signed(serverKey string) bool {
	if serverKey == "" || n.SignatureKey == "" {
		return false
	}
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	want := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(n.SignatureKey))) == 1
}

func midtransEnv() midtrans.EnvironmentType {
	if strings.EqualFold(os.Getenv("MIDTRANS_ENV"), "production") {
		return midtrans.Production
	}
	return midtrans.Sandbox
}

// settlementStatus maps a Midtrans transaction state to a payment status.
func settlementStatus(n MidtransNotification) string {
	switch n.TransactionStatus {
	case "capture":
		if n.FraudStatus == "accept" {
			return models.PaymentStatusPaid
		}
		return models.PaymentStatusPending
	case "settlement":
		return models.PaymentStatusPaid
	case "deny", "cancel", "expire":
		return models.PaymentStatusCancelled
	default:
		return models.PaymentStatusPending
	}
}

// payerOf finds the patient a payment is collected from.
func payerOf(db *gorm.DB, p models.Payment) (models.Patient, error) {
	var patient models.Patient
	switch {
	case p.RentalID != nil:
		var rental models.Rental
		if err := db.Preload("Patient").First(&rental, *p.RentalID).Error; err != nil {
			return patient, err
		}
		return rental.Patient, nil
	case p.SaleID != nil:
		var sale models.Sale
		if err := db.Preload("Patient").First(&sale, *p.SaleID).Error; err != nil {
			return patient, err
		}
		return sale.Patient, nil
	}
	return patient, errors.New("payment has no rental or sale")
}

// CreatePaymentCheckout opens a Midtrans Snap transaction for an unpaid payment.
func CreatePaymentCheckout(c *gin.Context) {
	var payment models.Payment
	if err := config.DB.First(&payment, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		notFoundOr500(c, err, "payment not found")
		return
	}

	// 1. Only open payments can be checked out
	if payment.Status == models.PaymentStatusPaid {
		utils.APIResponse(c, http.StatusConflict, false, "payment already settled", nil)
		return
	}

	patient, err := payerOf(config.DB, payment)
	if err != nil {
		config.LogError(config.GetLogger(), "handlers", "CreatePaymentCheckout", "payer lookup", payment.ID, err)
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to resolve payer", nil)
		return
	}

	// 2. Each checkout gets a fresh order id; the webhook looks payments up by it
	payment.Reference = "PAY-" + uuid.NewString()
	payment.Status = models.PaymentStatusPending
	if err := config.DB.Model(&payment).Updates(map[string]interface{}{
		"reference": payment.Reference,
		"status":    payment.Status,
	}).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to update payment", nil)
		return
	}

	// 3. Snap transaction
	var s snap.Client
	s.New(os.Getenv("MIDTRANS_SERVER_KEY"), midtransEnv())

	gross := payment.Amount.Round(0).IntPart()
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  payment.Reference,
			GrossAmt: gross,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: patient.FullName,
			Phone: patient.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    fmt.Sprintf("PAYMENT-%d", payment.ID),
				Name:  fmt.Sprintf("%s payment", payment.Type),
				Price: gross,
				Qty:   1,
			},
		},
	}

	snapResp, errSnap := s.CreateTransaction(req)
	if errSnap != nil {
		config.LogError(config.GetLogger(), "handlers", "CreatePaymentCheckout", "midtrans", payment.Reference, errSnap)
		utils.APIResponse(c, http.StatusBadGateway, false, "payment gateway error", errSnap.GetMessage())
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "checkout created", gin.H{
		"payment_id":   payment.ID,
		"reference":    payment.Reference,
		"amount":       payment.Amount,
		"snap_token":   snapResp.Token,
		"redirect_url": snapResp.RedirectURL,
	})
}

// HandleMidtransNotification settles the payment a Midtrans webhook refers to.
func HandleMidtransNotification(c *gin.Context) {
	logger := config.GetLogger()

	var notification MidtransNotification
	if err := c.ShouldBindJSON(&notification); err != nil || notification.OrderID == "" {
		utils.APIResponse(c, http.StatusBadRequest, false, "invalid notification", nil)
		return
	}

	status := settlementStatus(notification)
	fields := logrus.Fields{
		"order_id":           notification.OrderID,
		"transaction_status": notification.TransactionStatus,
		"fraud_status":       notification.FraudStatus,
		"mapped_status":      status,
	}
	if !notification.signed(os.Getenv("MIDTRANS_SERVER_KEY")) {
		logger.WithFields(fields).Warn("midtrans notification with bad signature")
		utils.APIResponse(c, http.StatusForbidden, false, "invalid signature", nil)
		return
	}
	logger.WithFields(fields).Info("midtrans notification received")

	var payment models.Payment
	if err := config.DB.Where("reference = ?", notification.OrderID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(fields).Warn("midtrans notification for unknown payment")
			utils.APIResponse(c, http.StatusNotFound, false, "payment not found", nil)
			return
		}
		config.LogError(logger, "handlers", "HandleMidtransNotification", "lookup", notification.OrderID, err)
		utils.APIResponse(c, http.StatusInternalServerError, false, "database error", nil)
		return
	}

	// settled payments never move back
	if payment.Status == status || payment.Status == models.PaymentStatusPaid {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	updates := map[string]interface{}{"status": status}
	if status == models.PaymentStatusPaid && payment.PaymentDate == nil {
		updates["payment_date"] = time.Now()
	}
	if err := config.DB.Model(&payment).Updates(updates).Error; err != nil {
		config.LogError(logger, "handlers", "HandleMidtransNotification", "update", notification.OrderID, err)
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to update payment", nil)
		return
	}

	if status == models.PaymentStatusPaid {
		notifyStaff(c, "Payment received",
			fmt.Sprintf("Online payment %s of %s settled", payment.Reference, payment.Amount.StringFixed(3)),
			map[string]string{"payment_id": fmt.Sprintf("%d", payment.ID), "type": "payment_paid"})
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// notifyStaff pushes one message to every staff device without blocking the request.
func notifyStaff(c *gin.Context, title, body string, data map[string]string) {
	if !utils.FCMEnabled() {
		return
	}
	var users []models.User
	if err := config.DB.Where("role_id IN ?", []uint{models.RoleAdmin, models.RoleStaff}).Find(&users).Error; err != nil {
		config.LogError(config.GetLogger(), "handlers", "notifyStaff", "load users", nil, err)
		return
	}
	ctx := c.Request.Context()
	for _, token := range notifier.StaffTokens(users) {
		go func(token string) {
			if err := utils.SendNotification(context.WithoutCancel(ctx), token, title, body, data); err != nil {
				config.LogError(config.GetLogger(), "handlers", "notifyStaff", "send", token, err)
			}
		}(token)
	}
}
