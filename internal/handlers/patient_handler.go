package handlers

import (
	"net/http"
	"strings"

	"homecare-rental/internal/config"
	"homecare-rental/internal/models"
	"homecare-rental/pkg/utils"

	"github.com/gin-gonic/gin"
)

func AddPatient(c *gin.Context) {
	var input models.CreatePatientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "invalid patient input", err.Error())
		return
	}

	patient := models.Patient{
		FullName:   strings.TrimSpace(input.FullName),
		Phone:      input.Phone,
		Region:     input.Region,
		Address:    input.Address,
		DoctorName: input.DoctorName,
	}

	if err := config.DB.Create(&patient).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to save patient", nil)
		return
	}

	utils.APIResponse(c, http.StatusCreated, true, "patient added", patient)
}

// GetPatients lists patients, optionally filtered by ?q= on the name or phone
// and ?region=.
func GetPatients(c *gin.Context) {
	query := config.DB.WithContext(c.Request.Context()).Order("full_name asc")
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		query = query.Where("full_name LIKE ? OR phone LIKE ?", like, like)
	}
	if region := c.Query("region"); region != "" {
		query = query.Where("region = ?", region)
	}

	var patients []models.Patient
	if err := query.Find(&patients).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to load patients", nil)
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "patients", patients)
}

func GetPatient(c *gin.Context) {
	var patient models.Patient
	if err := config.DB.First(&patient, utils.StringToUint64(c.Param("id"))).Error; err != nil {
		notFoundOr500(c, err, "patient not found")
		return
	}
	utils.APIResponse(c, http.StatusOK, true, "patient detail", patient)
}
