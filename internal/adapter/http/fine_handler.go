package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"library-circulation/internal/usecase/fine"
	"library-circulation/pkg/id"
)

type FineHandler struct {
	uc  *fine.Usecase
	log *logrus.Logger
}

func NewFineHandler(uc *fine.Usecase, log *logrus.Logger) *FineHandler {
	return &FineHandler{uc: uc, log: log}
}

func (h *FineHandler) List(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": out})
}

func (h *FineHandler) Get(c echo.Context) error {
	return h.with(c, h.uc.Get)
}

func (h *FineHandler) Pay(c echo.Context) error {
	return h.with(c, h.uc.Pay)
}

func (h *FineHandler) Waive(c echo.Context) error {
	return h.with(c, h.uc.Waive)
}

func (h *FineHandler) with(c echo.Context, op func(ctx context.Context, fineID uint64) (*fine.FineDTO, error)) error {
	fineID, err := id.ParseCode("F", c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid fine id")
	}
	dto, err := op(c.Request().Context(), fineID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
