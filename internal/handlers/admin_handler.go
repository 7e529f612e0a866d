package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AdminHandler struct {
	listUC   *ucAppointment.ListAppointments
	statusUC *ucAppointment.UpdateStatus
	cancelUC *ucAppointment.CancelAppointment
	exportUC *ucAppointment.ExportAppointments
	systemUC *ucAppointment.GetSystemStatus
	log      *logrus.Logger
}

func NewAdminHandler(
	listUC *ucAppointment.ListAppointments,
	statusUC *ucAppointment.UpdateStatus,
	cancelUC *ucAppointment.CancelAppointment,
	exportUC *ucAppointment.ExportAppointments,
	systemUC *ucAppointment.GetSystemStatus,
	log *logrus.Logger,
) *AdminHandler {
	return &AdminHandler{
		listUC:   listUC,
		statusUC: statusUC,
		cancelUC: cancelUC,
		exportUC: exportUC,
		systemUC: systemUC,
		log:      log,
	}
}

// ======================================================
// LIST
// ======================================================

func (h *AdminHandler) List(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	list, err := h.listUC.Execute(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.List(c, dto.FromAppointments(list))
}

// ======================================================
// STATUS / CANCEL
// ======================================================

func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request.")
		return
	}

	next, ok := domain.ParseStatus(req.Status)
	if !ok {
		httperr.BadRequest(c, "invalid_status", "Unknown status.")
		return
	}

	ap, err := h.statusUC.Execute(c.Request.Context(), currentUserID(c), c.Param("id"), next)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, dto.FromAppointment(*ap))
}

func (h *AdminHandler) Cancel(c *gin.Context) {
	ap, err := h.cancelUC.Execute(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	httpresp.OK(c, dto.FromAppointment(*ap))
}

// ======================================================
// EXPORT / SYSTEM STATUS
// ======================================================

func (h *AdminHandler) Export(c *gin.Context) {
	filter, ok := listFilter(c)
	if !ok {
		return
	}

	res, err := h.exportUC.Execute(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if res.ArchiveKey != "" {
		c.Header("X-Archive-Key", res.ArchiveKey)
	}
	httpresp.File(c, res.FileName, res.ContentType, res.Data)
}

func (h *AdminHandler) Status(c *gin.Context) {
	st := h.systemUC.Execute(c.Request.Context())

	httpresp.OK(c, gin.H{
		"store_reachable": st.StoreReachable,
		"doctors":         st.Doctors,
		"appointments":    st.Appointments,
		"checked_at":      st.CheckedAt,
	})
}
