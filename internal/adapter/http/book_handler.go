package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"library-circulation/internal/usecase/catalog"
	"library-circulation/pkg/id"
)

type BookHandler struct {
	uc  *catalog.Usecase
	log *logrus.Logger
}

func NewBookHandler(uc *catalog.Usecase, log *logrus.Logger) *BookHandler {
	return &BookHandler{uc: uc, log: log}
}

type createBookReq struct {
	Title    string `json:"title"    validate:"notblank,max=255"`
	Author   string `json:"author"   validate:"notblank,max=255"`
	ISBN     string `json:"isbn"     validate:"required,isbn"`
	Quantity int    `json:"quantity" validate:"gte=1,lte=10000"`
}

type updateQuantityReq struct {
	Quantity int `json:"quantity" validate:"gte=1,lte=10000"`
}

func (h *BookHandler) Create(c echo.Context) error {
	var req createBookReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.uc.Create(c.Request().Context(), catalog.CreateBookInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *BookHandler) List(c echo.Context) error {
	all, _ := strconv.ParseBool(c.QueryParam("include_inactive"))
	out, err := h.uc.List(c.Request().Context(), all)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": out})
}

func (h *BookHandler) Get(c echo.Context) error {
	bookID, err := id.ParseCode("B", c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid book id")
	}
	dto, err := h.uc.Get(c.Request().Context(), bookID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BookHandler) UpdateQuantity(c echo.Context) error {
	bookID, err := id.ParseCode("B", c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid book id")
	}
	var req updateQuantityReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.uc.UpdateQuantity(c.Request().Context(), bookID, req.Quantity)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BookHandler) Deactivate(c echo.Context) error {
	bookID, err := id.ParseCode("B", c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid book id")
	}
	if err := h.uc.Deactivate(c.Request().Context(), bookID); err != nil {
		return writeError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
