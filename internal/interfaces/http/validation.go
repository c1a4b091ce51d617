package http

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Salon-api/internal/application/dto"
	"github.com/jhoicas/Salon-api/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bind parsea el body y valida los tags. Responde 400 y devuelve false si algo falla.
func bind(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: domain.CodeInvalidInput, Message: "cuerpo inválido"})
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    domain.CodeInvalidInput,
				Message: "datos inválidos: " + strings.Join(fields, ", "),
			})
		}
		return false, writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
	}
	return true, nil
}

// bindPage lee limit/offset del query string (por defecto 20/0).
func bindPage(c *fiber.Ctx) (dto.PageRequest, error) {
	var p dto.PageRequest
	if err := c.QueryParser(&p); err != nil {
		return p, fmt.Errorf("%w: paginación inválida", domain.ErrInvalidInput)
	}
	p.DefaultPage()
	if err := validate.Struct(p); err != nil {
		return p, fmt.Errorf("%w: limit debe estar entre 1 y 100", domain.ErrInvalidInput)
	}
	return p, nil
}

func pageOf[T any](items []T, p dto.PageRequest) []T {
	if p.Offset >= len(items) {
		return items[:0]
	}
	end := p.Offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end]
}
