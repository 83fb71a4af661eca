package v1

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/aposta-apoio-service/internal/core/domain"
	"github.com/duynhne/aposta-apoio-service/internal/core/repository"
	logicv1 "github.com/duynhne/aposta-apoio-service/internal/logic/v1"
	"github.com/duynhne/aposta-apoio-service/middleware"
)

const registroBody = `{
	"nome": "Joao Silva",
	"email": "joao@example.com",
	"telefone": "11988887777",
	"cpf": "98765432100",
	"dataNascimento": "1985-01-02",
	"endereco": {"rua": "Rua A", "numero": "10", "bairro": "Centro", "cidade": "Sao Paulo", "estado": "SP", "cep": "01000-000"},
	"login": "joao",
	"senha": "segredo123"
}`

const usuarioBody = `{
	"nome": "Maria Souza",
	"email": "maria@example.com",
	"telefone": "11999990000",
	"cpf": "12345678901",
	"dataNascimento": "1990-05-20"
}`

const profissionalBody = `{
	"nome": "Dra. Ana",
	"email": "ana@example.com",
	"especialidade": "PSICOLOGIA",
	"endereco": {"rua": "Rua B", "numero": "20", "bairro": "Centro", "cidade": "Sao Paulo", "estado": "SP", "cep": "01000-000"}
}`

type testAPI struct {
	router *gin.Engine
	token  string
}

func newTestRouter(t *testing.T, authLimit ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	timeAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"timezone":"America/Sao_Paulo","datetime":"2025-06-01T12:00:00-03:00"}`))
	}))
	t.Cleanup(timeAPI.Close)

	store := repository.NewMemoryStore()
	users := repository.NewMemoryUserRepository(store)
	professionals := repository.NewMemoryProfessionalRepository(store)
	sessions := repository.NewMemorySessionRepository(store)

	tokens := logicv1.NewTokenService("test-secret", time.Hour, nil)
	auth := logicv1.NewAuthService(users, tokens, logicv1.NewPasswordHasher(bcrypt.MinCost))

	h := NewHandler(Services{
		Auth:          auth,
		Users:         logicv1.NewUserService(users, sessions),
		Professionals: logicv1.NewProfessionalService(professionals),
		Sessions:      logicv1.NewSessionService(sessions, users, professionals),
		Dashboard:     logicv1.NewDashboardService(users, professionals, sessions),
		ExternalTime:  logicv1.NewExternalTimeService(timeAPI.URL, "America/Sao_Paulo", time.Second),
	})

	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.Authenticate(tokens, auth))
	h.RegisterRoutes(r, authLimit...)
	r.NoRoute(middleware.RequireAuthenticated(), h.NotFound)
	return r
}

// newLoggedInAPI registers and logs in "joao".
func newLoggedInAPI(t *testing.T) *testAPI {
	t.Helper()
	api := &testAPI{router: newTestRouter(t)}

	w := api.do(http.MethodPost, "/auth/registro", registroBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodPost, "/auth/login", `{"login":"joao","senha":"segredo123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tok domain.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))
	api.token = tok.Token
	return api
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	return a.doAs(a.token, method, path, body)
}

func (a *testAPI) doAs(token, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *testAPI) create(t *testing.T, path, body string) int64 {
	t.Helper()
	w := a.do(http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[struct{ ID int64 }](t, w).ID
}

func sessionBody(userID, professionalID int64) string {
	return fmt.Sprintf(`{"usuarioId":%d,"profissionalId":%d,"dataHora":"2025-09-20T14:30:00","descricao":"Primeira conversa"}`,
		userID, professionalID)
}

func TestEndToEndScenario(t *testing.T) {
	api := newLoggedInAPI(t)

	w := api.do(http.MethodGet, "/usuarios", "")
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[[]domain.UserDTO](t, w)
	require.Len(t, users, 1)
	assert.Equal(t, "Joao Silva", users[0].Nome)

	w = api.doAs("", http.MethodGet, "/usuarios", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	id := api.create(t, "/usuarios", usuarioBody)
	w = api.do(http.MethodDelete, fmt.Sprintf("/usuarios/%d", id), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRegister_DuplicateLogin(t *testing.T) {
	api := newLoggedInAPI(t)

	w := api.do(http.MethodPost, "/auth/registro", registroBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[domain.ErrorResponse](t, w)
	assert.Equal(t, 400, body.Status)
	assert.Equal(t, "Bad Request", body.Erro)
	assert.NotEmpty(t, body.Mensagem)

	w = api.do(http.MethodGet, "/dashboard/resumo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), decode[domain.Summary](t, w).TotalUsuarios)
}

func TestLogin(t *testing.T) {
	api := newLoggedInAPI(t)

	w := api.doAs("", http.MethodPost, "/auth/login", `{"login":"joao","senha":"errada"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.doAs("", http.MethodPost, "/auth/login", `{"login":"ninguem","senha":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.doAs("", http.MethodPost, "/auth/login", `{"login":"joao","senha":"segredo123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	tok := decode[domain.TokenResponse](t, w)
	assert.Equal(t, "Bearer", tok.Tipo)
	assert.Equal(t, int64(3600000), tok.ExpiresIn)
}

func TestAuthorizationBoundary(t *testing.T) {
	api := newLoggedInAPI(t)

	tests := []struct {
		path  string
		token string
		want  int
	}{
		{"/usuarios", "", http.StatusForbidden},
		{"/usuarios/1", "", http.StatusForbidden},
		{"/sessoes", "", http.StatusUnauthorized},
		{"/profissionais", "", http.StatusUnauthorized},
		{"/dashboard/resumo", "", http.StatusUnauthorized},
		{"/usuarios", "garbage", http.StatusForbidden},
		{"/sessoes", "garbage", http.StatusUnauthorized},
		{"/sessoes", api.token, http.StatusOK},
		{"/nao-existe", "", http.StatusUnauthorized},
		{"/usuarios/1/extra", "", http.StatusForbidden},
		{"/nao-existe", api.token, http.StatusNotFound},
		{"/v3/api-docs", "", http.StatusOK},
		{"/swagger-ui.html", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.path+"/"+tt.token, func(t *testing.T) {
			w := api.doAs(tt.token, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestDeletedUserTokenIsAnonymous(t *testing.T) {
	api := newLoggedInAPI(t)

	users := decode[[]domain.UserDTO](t, api.do(http.MethodGet, "/usuarios", ""))
	require.Len(t, users, 1)

	w := api.do(http.MethodDelete, fmt.Sprintf("/usuarios/%d", users[0].ID), "")
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/sessoes", "").Code)
}

func TestCreateUser_LocationAndRoundTrip(t *testing.T) {
	api := newLoggedInAPI(t)

	w := api.do(http.MethodPost, "/usuarios", usuarioBody)
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[domain.UserDTO](t, w)
	assert.Equal(t, fmt.Sprintf("/usuarios/%d", created.ID), w.Header().Get("Location"))

	w = api.do(http.MethodGet, fmt.Sprintf("/usuarios/%d", created.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[domain.UserDTO](t, w)
	assert.Equal(t, "Maria Souza", got.Nome)
	assert.Equal(t, "1990-05-20", got.DataNascimento.Format(domain.DateLayout))

	update := strings.Replace(usuarioBody, "Maria Souza", "Maria S. Lima", 1)
	w = api.do(http.MethodPut, fmt.Sprintf("/usuarios/%d", created.ID), update)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Maria S. Lima", decode[domain.UserDTO](t, w).Nome)
}

func TestCreateProfessional_WithoutAddress(t *testing.T) {
	api := newLoggedInAPI(t)

	w := api.do(http.MethodPost, "/profissionais", `{"nome":"Dr. Bob","email":"bob@example.com","especialidade":"COACHING"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.ProfessionalDTO](t, w)
	assert.Nil(t, created.Endereco)

	w = api.do(http.MethodGet, fmt.Sprintf("/profissionais/%d", created.ID), "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[domain.ProfessionalDTO](t, w)
	assert.Equal(t, domain.SpecialtyCoaching, got.Especialidade)
	assert.Nil(t, got.Endereco)

	w = api.do(http.MethodPut, fmt.Sprintf("/profissionais/%d", created.ID), profissionalBody)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, decode[domain.ProfessionalDTO](t, w).Endereco)
}

func TestValidationErrors(t *testing.T) {
	api := newLoggedInAPI(t)

	w := api.do(http.MethodPost, "/usuarios", `{"nome":"A","email":"nao-e-email","telefone":"11999990000","cpf":"12345678901","dataNascimento":"1990-05-20",
		"endereco":{"numero":"1","bairro":"B","cidade":"C","estado":"SP","cep":"0"}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decode[domain.ErrorResponse](t, w)
	assert.Equal(t, "Erro de validação", body.Mensagem)

	campos := make([]string, 0, len(body.Erros))
	for _, fe := range body.Erros {
		campos = append(campos, fe.Campo)
		assert.NotEmpty(t, fe.Mensagem)
	}
	assert.ElementsMatch(t, []string{"nome", "email", "endereco.rua"}, campos)
}

func TestDecodeErrors(t *testing.T) {
	api := newLoggedInAPI(t)

	tests := []struct {
		name     string
		path     string
		body     string
		contains string
	}{
		{"malformed json", "/usuarios", `{"nome":`, "Payload inválido"},
		{"empty body", "/usuarios", "", "Payload inválido"},
		{"bad specialty", "/profissionais", strings.Replace(profissionalBody, "PSICOLOGIA", "MAGIA", 1), "'especialidade'. Valores permitidos: PSICOLOGIA, ORIENTACAO, TERAPIA_GRUPO, COACHING, PSIQUIATRIA"},
		{"bad date", "/usuarios", strings.Replace(usuarioBody, "1990-05-20", "20/05/1990", 1), "inválido para 'dataNascimento'. Use ISO-8601"},
		{"bad datetime", "/sessoes", `{"usuarioId":1,"profissionalId":1,"dataHora":"ontem","descricao":"x"}`, "inválido para 'dataHora'. Use ISO-8601"},
		{"numeric datetime", "/sessoes", `{"usuarioId":1,"profissionalId":1,"dataHora":20250920,"descricao":"x"}`, "'dataHora'"},
		{"wrong type", "/sessoes", `{"usuarioId":"um","profissionalId":1,"dataHora":"2025-09-20T14:30:00","descricao":"x"}`, "'usuarioId'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(http.MethodPost, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decode[domain.ErrorResponse](t, w).Mensagem, tt.contains)
		})
	}
}

func TestNotFoundAndInvalidID(t *testing.T) {
	api := newLoggedInAPI(t)

	for _, path := range []string{"/usuarios/999", "/profissionais/999", "/sessoes/999"} {
		assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, path, "").Code, path)
		assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, path, "").Code, path)
	}

	w := api.do(http.MethodGet, "/profissionais/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Valor inválido para campo 'id'.", decode[domain.ErrorResponse](t, w).Mensagem)
}

func TestSessions_InvalidReferencesAndDeleteConflict(t *testing.T) {
	api := newLoggedInAPI(t)

	userID := api.create(t, "/usuarios", usuarioBody)
	professionalID := api.create(t, "/profissionais", profissionalBody)

	w := api.do(http.MethodPost, "/sessoes", sessionBody(999, professionalID))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(http.MethodPost, "/sessoes", sessionBody(userID, 999))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Usuário ou Profissional não encontrado", decode[domain.ErrorResponse](t, w).Mensagem)

	w = api.do(http.MethodPost, "/sessoes", sessionBody(userID, professionalID))
	require.Equal(t, http.StatusCreated, w.Code)
	session := decode[domain.SessionDTO](t, w)
	assert.Equal(t, fmt.Sprintf("/sessoes/%d", session.ID), w.Header().Get("Location"))
	assert.Contains(t, w.Body.String(), `"dataHora":"2025-09-20T14:30:00"`)

	w = api.do(http.MethodDelete, fmt.Sprintf("/usuarios/%d", userID), "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodDelete, fmt.Sprintf("/profissionais/%d", professionalID), "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, msgDataIntegrity, decode[domain.ErrorResponse](t, w).Mensagem)

	w = api.do(http.MethodGet, "/dashboard/resumo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.Summary{TotalUsuarios: 2, TotalProfissionais: 1, TotalSessoes: 1}, decode[domain.Summary](t, w))
}

func TestSession_FractionalDateTimeRoundTrip(t *testing.T) {
	api := newLoggedInAPI(t)

	userID := api.create(t, "/usuarios", usuarioBody)
	professionalID := api.create(t, "/profissionais", profissionalBody)
	body := strings.Replace(sessionBody(userID, professionalID), "14:30:00", "14:30:00.25", 1)

	id := api.create(t, "/sessoes", body)
	w := api.do(http.MethodGet, fmt.Sprintf("/sessoes/%d", id), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"dataHora":"2025-09-20T14:30:00.25"`)
}

func TestPagination(t *testing.T) {
	api := newLoggedInAPI(t)

	for _, nome := range []string{"Carla", "Ana", "Bruno"} {
		api.create(t, "/profissionais", strings.Replace(profissionalBody, "Dra. Ana", nome, 1))
	}

	w := api.do(http.MethodGet, "/profissionais?page=0&size=2&sort=nome,desc", "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[domain.Page[domain.ProfessionalDTO]](t, w)
	assert.Equal(t, int64(3), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Content, 2)
	assert.Equal(t, "Carla", page.Content[0].Nome)
	assert.Equal(t, "Bruno", page.Content[1].Nome)

	w = api.do(http.MethodGet, "/profissionais", "")
	require.Equal(t, http.StatusOK, w.Code)
	page = decode[domain.Page[domain.ProfessionalDTO]](t, w)
	assert.Equal(t, domain.DefaultPageSize, page.Size)

	w = api.do(http.MethodGet, "/profissionais?size=1000", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.MaxPageSize, decode[domain.Page[domain.ProfessionalDTO]](t, w).Size)

	w = api.do(http.MethodGet, "/usuarios?page=0&size=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[domain.Page[domain.UserDTO]](t, w)
	assert.Len(t, users.Content, 1)
	assert.Equal(t, int64(1), users.TotalElements)

	for _, q := range []string{"sort=senha", "sort=nome,sideways", "page=-1", "size=0", "page=x"} {
		w = api.do(http.MethodGet, "/profissionais?"+q, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestPagination_OffsetOverflow(t *testing.T) {
	api := newLoggedInAPI(t)
	api.create(t, "/profissionais", profissionalBody)

	for _, path := range []string{
		"/profissionais?page=922337203685477580&size=20",
		"/usuarios?page=922337203685477580&size=20",
		"/sessoes?page=9223372036854775807",
	} {
		w := api.do(http.MethodGet, path, "")
		require.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "Parâmetro de paginação inválido", decode[domain.ErrorResponse](t, w).Mensagem, path)
	}

	w := api.do(http.MethodGet, "/profissionais?page=1000&size=100", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[domain.Page[domain.ProfessionalDTO]](t, w).Content)
}

func TestExternalTime(t *testing.T) {
	api := newLoggedInAPI(t)

	w := api.do(http.MethodGet, "/externo/tempo", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.ExternalTime{Timezone: "America/Sao_Paulo", Datetime: "2025-06-01T12:00:00-03:00"},
		decode[domain.ExternalTime](t, w))
}

func TestAuthRateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.001, 1)
	api := &testAPI{router: newTestRouter(t, limiter.Middleware())}

	w := api.do(http.MethodPost, "/auth/login", `{"login":"x","senha":"y"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/auth/login", `{"login":"x","senha":"y"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestAPIDocs(t *testing.T) {
	api := &testAPI{router: newTestRouter(t)}

	w := api.do(http.MethodGet, "/v3/api-docs", "")
	require.Equal(t, http.StatusOK, w.Code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Contains(t, doc["paths"], "/auth/login")
}
