package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
	logicv1 "github.com/duynhne/aposta-apoio-service/internal/logic/v1"
	"github.com/duynhne/aposta-apoio-service/middleware"
)

const (
	msgInternal      = "Erro interno"
	msgValidation    = "Erro de validação"
	msgInvalidBody   = "Payload inválido ou formato incorreto."
	msgInvalidSort   = "Propriedade de ordenação inválida"
	msgDataIntegrity = "Operação violou integridade de dados (FK ou unique)."
)

// errorMapping binds a sentinel error to its HTTP status and public message.
type errorMapping struct {
	target  error
	status  int
	message string
}

// errorTable is consulted in order with errors.Is; the first match wins.
var errorTable = []errorMapping{
	{logicv1.ErrInvalidCredentials, http.StatusUnauthorized, "Credenciais inválidas"},
	{logicv1.ErrLoginTaken, http.StatusBadRequest, "Login já cadastrado"},
	{logicv1.ErrUserNotFound, http.StatusNotFound, "Usuário não encontrado"},
	{logicv1.ErrProfessionalNotFound, http.StatusNotFound, "Profissional não encontrado"},
	{logicv1.ErrSessionNotFound, http.StatusNotFound, "Sessão de apoio não encontrada"},
	{logicv1.ErrInvalidReference, http.StatusBadRequest, "Usuário ou Profissional não encontrado"},
	{logicv1.ErrUserHasSessions, http.StatusConflict, "Usuário possui sessões vinculadas e não pode ser removido."},
	{logicv1.ErrExternalService, http.StatusBadGateway, "Falha ao consumir serviço externo"},
	{domain.ErrInvalidSort, http.StatusBadRequest, msgInvalidSort},
	{errInvalidPageParam, http.StatusBadRequest, "Parâmetro de paginação inválido"},
	{errInvalidID, http.StatusBadRequest, "Valor inválido para campo 'id'."},
	{domain.ErrDataIntegrity, http.StatusConflict, msgDataIntegrity},
}

// errorResponse translates err into a status and the standard error body.
// Unknown errors become a 500 without detail.
func errorResponse(err error) (int, domain.ErrorResponse) {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m.status, middleware.NewErrorResponse(m.status, m.message, nil)
		}
	}
	return http.StatusInternalServerError, middleware.NewErrorResponse(http.StatusInternalServerError, msgInternal, nil)
}

// bindingErrorResponse translates a request decoding or validation failure.
// Syntax errors and empty bodies get the generic payload message.
func bindingErrorResponse(err error) domain.ErrorResponse {
	var (
		validationErrs validator.ValidationErrors
		typeErr        *json.UnmarshalTypeError
	)

	msg := msgInvalidBody
	var fields []domain.FieldError

	switch {
	case errors.As(err, &validationErrs):
		msg = msgValidation
		fields = fieldErrors(validationErrs)
	case errors.As(err, &typeErr):
		msg = typeErrorMessage(typeErr)
	}

	return middleware.NewErrorResponse(http.StatusBadRequest, msg, fields)
}

// typeErrorMessage names the field the decoder was filling when it failed.
func typeErrorMessage(e *json.UnmarshalTypeError) string {
	if e.Field == "" {
		return msgInvalidBody
	}
	field := "'" + e.Field + "'"
	if domain.IsSpecialty(e.Type) {
		return "Valor inválido para " + field + ". Valores permitidos: " + domain.SpecialtyNames() + "."
	}
	if example := domain.TemporalExample(e.Type); example != "" {
		return "Formato de data/hora inválido para " + field + ". Use ISO-8601 (ex: " + example + ")."
	}
	return "Valor inválido para campo " + field + "."
}

func fieldErrors(errs validator.ValidationErrors) []domain.FieldError {
	out := make([]domain.FieldError, 0, len(errs))
	for _, fe := range errs {
		out = append(out, domain.FieldError{
			Campo:    fieldPath(fe),
			Mensagem: fieldMessage(fe),
		})
	}
	return out
}

// fieldPath drops the root struct from the namespace: "UserDTO.endereco.rua"
// becomes "endereco.rua".
func fieldPath(fe validator.FieldError) string {
	_, path, found := strings.Cut(fe.Namespace(), ".")
	if !found {
		return fe.Field()
	}
	return path
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "não deve estar em branco"
	case "email":
		return "deve ser um endereço de e-mail bem formado"
	case "min":
		return "tamanho deve ser no mínimo " + fe.Param()
	case "max":
		return "tamanho deve ser no máximo " + fe.Param()
	default:
		return "valor inválido"
	}
}

// abortWithBindingError writes a 400 for a request that could not be bound.
func abortWithBindingError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, bindingErrorResponse(err))
}

// abortWithError writes the response errorResponse picks for err.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, body := errorResponse(err)
	c.AbortWithStatusJSON(status, body)
}
