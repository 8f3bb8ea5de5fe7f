package handlers

import (
	"net/http"

	"homecare-rental/internal/config"
	"homecare-rental/internal/models"
	"homecare-rental/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AddDiagnostic stores a polygraphy result for the patient in the path.
func AddDiagnostic(c *gin.Context) {
	patientID := utils.StringToUint64(c.Param("id"))

	var input models.CreateDiagnosticInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.APIResponse(c, http.StatusBadRequest, false, "invalid diagnostic input", err.Error())
		return
	}

	var patient models.Patient
	if err := config.DB.First(&patient, patientID).Error; err != nil {
		notFoundOr500(c, err, "patient not found")
		return
	}

	diagnostic := models.Diagnostic{
		PatientID: patient.ID,
		Date:      input.Date,
		Polygraph: input.Polygraph,
		IAHResult: input.IAHResult,
		IDResult:  input.IDResult,
		Remarks:   input.Remarks,
	}
	if err := config.DB.Create(&diagnostic).Error; err != nil {
		utils.APIResponse(c, http.StatusInternalServerError, false, "failed to save diagnostic", nil)
		return
	}

	diagnostic.Patient = patient
	utils.APIResponse(c, http.StatusCreated, true, "diagnostic recorded", diagnostic)
}
