package domain

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Login string `json:"login" binding:"required"`
	Senha string `json:"senha" binding:"required"`
}

// RegisterRequest is the body of POST /auth/registro.
type RegisterRequest struct {
	Nome           string   `json:"nome" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Telefone       string   `json:"telefone" binding:"required"`
	CPF            string   `json:"cpf" binding:"required"`
	DataNascimento *Date    `json:"dataNascimento" binding:"required"`
	Endereco       *Address `json:"endereco" binding:"required"`
	Login          string   `json:"login" binding:"required"`
	Senha          string   `json:"senha" binding:"required"`
	Role           string   `json:"role"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	Token     string `json:"token"`
	Tipo      string `json:"tipo"`
	ExpiresIn int64  `json:"expiresIn"`
}

// UserDTO is the public shape of a User; credentials never leave the service.
type UserDTO struct {
	ID             int64    `json:"id"`
	Nome           string   `json:"nome" binding:"required,min=2,max=100"`
	Email          string   `json:"email" binding:"required,email"`
	Telefone       string   `json:"telefone" binding:"required,min=8,max=20"`
	CPF            string   `json:"cpf" binding:"required,min=11,max=14"`
	DataNascimento *Date    `json:"dataNascimento" binding:"required"`
	Endereco       *Address `json:"endereco"`
}

type ProfessionalDTO struct {
	ID            int64     `json:"id"`
	Nome          string    `json:"nome" binding:"required,min=2,max=100"`
	Email         string    `json:"email" binding:"required,email"`
	Especialidade Specialty `json:"especialidade" binding:"required"`
	Endereco      *Address  `json:"endereco"`
}

type SessionDTO struct {
	ID             int64     `json:"id"`
	UsuarioID      int64     `json:"usuarioId" binding:"required"`
	ProfissionalID int64     `json:"profissionalId" binding:"required"`
	DataHora       *DateTime `json:"dataHora" binding:"required"`
	Descricao      string    `json:"descricao" binding:"required"`
}

// Summary is returned by GET /dashboard/resumo.
type Summary struct {
	TotalUsuarios      int64 `json:"totalUsuarios"`
	TotalProfissionais int64 `json:"totalProfissionais"`
	TotalSessoes       int64 `json:"totalSessoes"`
}

// ExternalTime is returned by GET /externo/tempo.
type ExternalTime struct {
	Timezone string `json:"timezone"`
	Datetime string `json:"datetime"`
}

// FieldError describes one failed field constraint.
type FieldError struct {
	Campo    string `json:"campo"`
	Mensagem string `json:"mensagem"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Timestamp string       `json:"timestamp"`
	Status    int          `json:"status"`
	Erro      string       `json:"erro"`
	Mensagem  string       `json:"mensagem"`
	Erros     []FieldError `json:"erros,omitempty"`
}

// ToUserDTO maps a User to its public shape.
func ToUserDTO(u *User) UserDTO {
	return UserDTO{
		ID:             u.ID,
		Nome:           u.Nome,
		Email:          u.Email,
		Telefone:       u.Telefone,
		CPF:            u.CPF,
		DataNascimento: u.DataNascimento,
		Endereco:       u.Endereco,
	}
}

func ToProfessionalDTO(p *Professional) ProfessionalDTO {
	return ProfessionalDTO{
		ID:            p.ID,
		Nome:          p.Nome,
		Email:         p.Email,
		Especialidade: p.Especialidade,
		Endereco:      p.Endereco,
	}
}

func ToSessionDTO(s *SupportSession) SessionDTO {
	dataHora := s.DataHora
	return SessionDTO{
		ID:             s.ID,
		UsuarioID:      s.UsuarioID,
		ProfissionalID: s.ProfissionalID,
		DataHora:       &dataHora,
		Descricao:      s.Descricao,
	}
}
