package handlers

import (
	"io"
	"net/http"

	"fabtech_dashboard/internal/catalog"
	"fabtech_dashboard/internal/livesync"
	"fabtech_dashboard/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MeasurementHandler struct {
	measurementService services.MeasurementService
	exportService      services.ExportService
	logger             *zap.Logger
}

func NewMeasurementHandler(measurementService services.MeasurementService, exportService services.ExportService, logger *zap.Logger) *MeasurementHandler {
	return &MeasurementHandler{
		measurementService: measurementService,
		exportService:      exportService,
		logger:             logger,
	}
}

// Any design_rate sent by the client is not bound: the rate is derived.
type measurementRequest struct {
	DesignSelection string `json:"design_selection" binding:"required,design"`
	DesignRef       string `json:"design_ref" binding:"required"`
	Quantity        int    `json:"quantity" binding:"gte=0"`
	Location        string `json:"location"`
	FloorNumber     string `json:"floor_number"`
	Granite         string `json:"granite"`
	Colour          string `json:"colour"`
	Lock            string `json:"lock"`
	MosquitoWindow  string `json:"mosquito_window" binding:"omitempty,mosquito_window"`
	Glass           string `json:"glass"`
	Note            string `json:"note"`
	W1              string `json:"w1"`
	W2              string `json:"w2"`
	W3              string `json:"w3"`
	H1              string `json:"h1"`
	H2              string `json:"h2"`
	H3              string `json:"h3"`
}

func (r measurementRequest) toInput() services.MeasurementInput {
	return services.MeasurementInput{
		DesignSelection: r.DesignSelection,
		DesignRef:       r.DesignRef,
		Quantity:        r.Quantity,
		Location:        r.Location,
		FloorNumber:     r.FloorNumber,
		Granite:         r.Granite,
		Colour:          r.Colour,
		Lock:            r.Lock,
		MosquitoWindow:  r.MosquitoWindow,
		Glass:           r.Glass,
		Note:            r.Note,
		W1:              r.W1,
		W2:              r.W2,
		W3:              r.W3,
		H1:              r.H1,
		H2:              r.H2,
		H3:              r.H3,
	}
}

func (h *MeasurementHandler) Designs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"designs": catalog.Designs()})
}

func (h *MeasurementHandler) List(c *gin.Context) {
	measurements, err := h.measurementService.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"measurements": measurements})
}

func (h *MeasurementHandler) Get(c *gin.Context) {
	measurement, err := h.measurementService.Get(c.Request.Context(), c.Param("id"), c.Param("mid"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, measurement)
}

func (h *MeasurementHandler) Submit(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	var req measurementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	result, err := h.measurementService.Submit(c.Request.Context(), userID, c.Param("id"), req.toInput())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	status := http.StatusCreated
	if result.Updated {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

func (h *MeasurementHandler) Delete(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err := h.measurementService.Delete(c.Request.Context(), userID, c.Param("id"), c.Param("mid")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *MeasurementHandler) View(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	state, err := h.measurementService.View(c.Request.Context(), userID, c.Param("id"), c.Param("mid"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *MeasurementHandler) Edit(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	state, err := h.measurementService.Edit(c.Request.Context(), userID, c.Param("id"), c.Param("mid"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *MeasurementHandler) Selection(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	state, err := h.measurementService.Selection(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *MeasurementHandler) Cancel(c *gin.Context) {
	userID, _, err := currentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	state, err := h.measurementService.Cancel(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Live streams the measurement list as server-sent events: one "snapshot"
// event, then one "change" event per applied delta.
func (h *MeasurementHandler) Live(c *gin.Context) {
	ctx := c.Request.Context()
	customerID := c.Param("id")
	updates := make(chan livesync.Update)
	errc := make(chan error, 1)

	go func() {
		errc <- h.measurementService.Live(ctx, customerID, func(u livesync.Update) error {
			select {
			case updates <- u:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		close(updates)
	}()

	first, ok := <-updates
	if !ok {
		if err := <-errc; err != nil && ctx.Err() == nil {
			respondError(c, h.logger, err)
		}
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent(string(first.Kind), first)
	c.Stream(func(w io.Writer) bool {
		u, ok := <-updates
		if !ok {
			return false
		}
		c.SSEvent(string(u.Kind), u)
		return true
	})
}

func (h *MeasurementHandler) Export(c *gin.Context) {
	customerID := c.Param("id")
	data, err := h.exportService.Measurements(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="measurements-`+customerID+`.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
