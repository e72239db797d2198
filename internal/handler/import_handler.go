package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/vc-scout/internal/service"
)

// ImportHandler parses uploaded CSV files into custom directory entries. Nothing is stored
// server side; callers keep the returned companies in their own workspace.
type ImportHandler struct{}

// NewImportHandler wires an ImportHandler.
func NewImportHandler() *ImportHandler {
	return &ImportHandler{}
}

// UploadCSV handles POST /companies/import requests.
func (h *ImportHandler) UploadCSV(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Error(c, http.StatusBadRequest, "missing csv file")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return Error(c, http.StatusBadRequest, "unable to open file")
	}
	defer file.Close()

	companies, summary, err := service.ImportCompaniesCSV(file)
	if err != nil {
		var validationErr service.CSVValidationError
		if errors.As(err, &validationErr) {
			return Error(c, http.StatusBadRequest, validationErr.Error())
		}
		return Error(c, http.StatusInternalServerError, "failed to process csv")
	}

	return Success(c, http.StatusOK, "companies CSV processed", map[string]any{
		"summary":   summary,
		"companies": companies,
	})
}
