package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"homecare-rental/internal/config"
	"homecare-rental/internal/models"
	"homecare-rental/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errForeignRecord = errors.New("linked record does not belong to patient")

// ownerFunc returns the patient id of the record with the given id.
type ownerFunc func(model interface{}, id uint64) (uint64, error)

func gormOwner(db *gorm.DB) ownerFunc {
	return func(model interface{}, id uint64) (uint64, error) {
		var ids []uint64
		if err := db.Model(model).Where("id = ?", id).Pluck("patient_id", &ids).Error; err != nil {
			return 0, err
		}
		if len(ids) == 0 {
			return 0, gorm.ErrRecordNotFound
		}
		return ids[0], nil
	}
}

// checkLinks makes sure the rental, sale and diagnostic an appointment points
// at exist and belong to its patient.
func checkLinks(in models.CreateAppointmentInput, owner ownerFunc) error {
	links := []struct {
		name  string
		model interface{}
		id    *uint64
	}{
		{"rental", &models.Rental{}, in.RentalID},
		{"sale", &models.Sale{}, in.SaleID},
		{"diagnostic", &models.Diagnostic{}, in.DiagnosticID},
	}
	for _, l := range links {
		if l.id == nil {
			continue
		}
		pid, err := owner(l.model, *l.id)
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && pid != in.PatientID) {
			return fmt.Errorf("%w: %s %d", errForeignRecord, l.name, *l.id)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

type UpdateAppointmentStatusInput struct {
	Status string `json:"status" binding:"required,oneof=SCHEDULED COMPLETED CANCELLED"`
}

func CreateAppointment(c *gin.Context) {
	var input models.CreateAppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "invalid appointment input", err.Error())
		return
	}

	var patient models.Patient
	if err := config.DB.First(&patient, input.PatientID).Error; err != nil {
		utils.APIResponse(c, http.StatusNotFound, false, "patient not found", nil)
		return
	}

	if input.AssignedToID != nil {
		var user models.User
		if err := config.DB.First(&user, *input.AssignedToID).Error; err != nil {
			utils.APIResponse(c, http.StatusBadRequest, false, "assigned user not found", nil)
			return
		}
	}

	if err := checkLinks(input, gormOwner(config.DB)); err != nil {
		if errors.Is(err, errForeignRecord) {
			utils.APIResponse(c, http.StatusBadRequest, false, err.Error(), nil)
			return
		}
		config.LogError(config.GetLogger(), "handlers", "CreateAppointment", "check links", input.PatientID, err)
		utils.APIResponse(c, http.StatusInternalServerError, false, "database error", nil)
		return
	}

	appointment := models.Appointment{
		PatientID:       input.PatientID,
		AppointmentDate: input.AppointmentDate,
		Type:            input.Type,
		Status:          models.AppointmentScheduled,
		Location:        input.Location,
		Notes:           input.Notes,
		AssignedToID:    input.AssignedToID,
		RentalID:        input.RentalID,
		SaleID:          input.SaleID,
		DiagnosticID:    input.DiagnosticID,
	}
	if err := config.DB.Create(&appointment).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to save appointment", nil)
		return
	}

	appointment.Patient = patient
	utils.APIResponse(c, http.StatusCreated, true, "appointment scheduled", appointment)
}

// UpdateAppointmentStatus completes or cancels an appointment.
func UpdateAppointmentStatus(c *gin.Context) {
	var input UpdateAppointmentStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "invalid status", err.Error())
		return
	}

	var appointment models.Appointment
	if err := config.DB.First(&appointment, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		notFoundOr500(c, err, "appointment not found")
		return
	}

	if err := config.DB.Model(&appointment).Update("status", input.Status).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to update appointment", nil)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "appointment updated", appointment)
}
