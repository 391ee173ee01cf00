package handler

import (
	"errors"
	"net/http"
	"strconv"

	"retail-insights/internal/domain"
	"retail-insights/internal/model"
)

// UploadResult is returned after a file was installed.
type UploadResult struct {
	Message            string        `json:"message"`
	Upload             *model.Upload `json:"upload"`
	NotificationQueued bool          `json:"notificationQueued"`
}

// UploadCSV installs an uploaded CSV as the current version of a source
// @Summary Upload a CSV source
// @Description Multipart upload (field "file"). The optional "source" field picks the destination; otherwise the file name decides, falling back to the submission file. Uploading the trending file e-mails the report to every user in the background.
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Param source formData string false "Destination source name or file name"
// @Success 200 {object} Response{data=UploadResult}
// @Failure 400 {object} Response "No file or unknown source"
// @Failure 413 {object} Response "File too large"
// @Failure 422 {object} Response "Empty file or missing columns"
// @Router /upload/csv [post]
func (h *Handler) UploadCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, Response{Error: "file too large", Code: "TOO_LARGE"})
			return
		}
		ErrorResponse(w, r, domain.NewInvalidInputError("No file uploaded"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		ErrorResponse(w, r, domain.NewInvalidInputError("No file uploaded"))
		return
	}
	defer file.Close()

	up, err := h.Installer.Install(r.Context(), r.FormValue("source"), header.Filename, file)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	result := UploadResult{
		Message: "CSV data uploaded and updated successfully",
		Upload:  up,
	}
	if up.Source == model.SourceTrending && h.Notifier != nil {
		result.NotificationQueued = h.Notifier.NotifyAsync(r.Context())
	}
	SuccessResponse(w, result)
}

// ListUploads returns the upload log
// @Summary Upload history
// @Description Most recent uploads first
// @Tags upload
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries (default 50)"
// @Success 200 {object} Response{data=[]model.Upload}
// @Failure 401 {object} Response "Missing or invalid token"
// @Router /uploads [get]
func (h *Handler) ListUploads(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			ErrorResponse(w, r, domain.NewInvalidInputError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	uploads, err := h.Uploads.ListUploads(r.Context(), limit)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	SuccessResponse(w, uploads)
}
