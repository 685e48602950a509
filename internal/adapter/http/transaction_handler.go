package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"library-circulation/internal/usecase/circulation"
	"library-circulation/pkg/id"
)

type TransactionHandler struct {
	uc  *circulation.Usecase
	log *logrus.Logger
}

func NewTransactionHandler(uc *circulation.Usecase, log *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{uc: uc, log: log}
}

type borrowReq struct {
	BookID           uint64 `json:"book_id"            validate:"required"`
	BorrowerName     string `json:"borrower_name"      validate:"notblank,max=255"`
	BorrowerIDNumber string `json:"borrower_id_number" validate:"notblank,max=64"`
	BorrowerCourse   string `json:"borrower_course"    validate:"max=128"`
	BorrowerContact  string `json:"borrower_contact"   validate:"max=128"`
	// Accept canonical date `YYYY-MM-DD` (aligns with schema DATE)
	BorrowedDate string `json:"borrowed_date" validate:"omitempty,isodate"`
	DueDate      string `json:"due_date"      validate:"omitempty,isodate"`
	Notes        string `json:"notes"         validate:"max=2000"`
}

type extendReq struct {
	NewDueDate string `json:"new_due_date" validate:"omitempty,isodate"`
	ExtendDays int    `json:"extend_days"  validate:"omitempty,gte=1,lte=365"`
}

func (h *TransactionHandler) Borrow(c echo.Context) error {
	var req borrowReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.uc.Borrow(c.Request().Context(), circulation.BorrowInput{
		BookID:           req.BookID,
		BorrowerName:     req.BorrowerName,
		BorrowerIDNumber: req.BorrowerIDNumber,
		BorrowerCourse:   req.BorrowerCourse,
		BorrowerContact:  req.BorrowerContact,
		Notes:            req.Notes,
		BorrowedDate:     parseDate(req.BorrowedDate),
		DueDate:          parseDate(req.DueDate),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *TransactionHandler) List(c echo.Context) error {
	in := circulation.ListInput{
		Status:           c.QueryParam("status"),
		BorrowerIDNumber: c.QueryParam("borrower_id_number"),
	}
	if raw := c.QueryParam("book_id"); raw != "" {
		n, err := id.ParseCode("B", raw)
		if err != nil {
			return badRequest(c, "invalid book_id")
		}
		in.BookID = n
	}
	var err error
	if in.Limit, err = intQuery(c, "limit"); err != nil {
		return badRequest(c, "invalid limit")
	}
	if in.Offset, err = intQuery(c, "offset"); err != nil {
		return badRequest(c, "invalid offset")
	}

	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"data": out})
}

func (h *TransactionHandler) Get(c echo.Context) error {
	txID, ok := h.pathID(c)
	if !ok {
		return badRequest(c, "invalid transaction id")
	}
	dto, err := h.uc.Get(c.Request().Context(), txID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *TransactionHandler) Return(c echo.Context) error {
	txID, ok := h.pathID(c)
	if !ok {
		return badRequest(c, "invalid transaction id")
	}
	dto, err := h.uc.Return(c.Request().Context(), txID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *TransactionHandler) UndoReturn(c echo.Context) error {
	txID, ok := h.pathID(c)
	if !ok {
		return badRequest(c, "invalid transaction id")
	}
	dto, err := h.uc.UndoReturn(c.Request().Context(), txID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *TransactionHandler) Extend(c echo.Context) error {
	txID, ok := h.pathID(c)
	if !ok {
		return badRequest(c, "invalid transaction id")
	}
	var req extendReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.uc.Extend(c.Request().Context(), circulation.ExtendInput{
		TransactionID: txID,
		NewDueDate:    parseDate(req.NewDueDate),
		ExtendDays:    req.ExtendDays,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *TransactionHandler) FinePreview(c echo.Context) error {
	txID, ok := h.pathID(c)
	if !ok {
		return badRequest(c, "invalid transaction id")
	}
	dto, err := h.uc.FinePreview(c.Request().Context(), txID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *TransactionHandler) SweepOverdue(c echo.Context) error {
	n, err := h.uc.SweepOverdue(c.Request().Context())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"updated": n})
}

// pathID accepts "12" or "T012".
func (h *TransactionHandler) pathID(c echo.Context) (uint64, bool) {
	n, err := id.ParseCode("T", c.Param("id"))
	return n, err == nil
}

func intQuery(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
