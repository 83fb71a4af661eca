package domain

import "strings"

// DefaultRole is assigned to registered users that do not ask for one.
const DefaultRole = "USER"

// Address is stored inline with its owner (endereco_* columns).
type Address struct {
	Rua    string `json:"rua" binding:"required,max=100"`
	Numero string `json:"numero" binding:"required,max=10"`
	Bairro string `json:"bairro" binding:"required,max=50"`
	Cidade string `json:"cidade" binding:"required,max=50"`
	Estado string `json:"estado" binding:"required,max=2"`
	Cep    string `json:"cep" binding:"required,max=10"`
}

// User is a person receiving support. Login and PasswordHash are empty for
// users created through the CRUD endpoints instead of registration.
type User struct {
	ID             int64
	Nome           string
	Email          string
	Telefone       string
	CPF            string
	DataNascimento *Date
	Endereco       *Address
	Login          string
	PasswordHash   string
	Role           string
}

// Professional is a support professional.
type Professional struct {
	ID            int64
	Nome          string
	Email         string
	Especialidade Specialty
	Endereco      *Address
}

// SupportSession is a scheduled meeting between a user and a professional.
type SupportSession struct {
	ID             int64
	UsuarioID      int64
	ProfissionalID int64
	DataHora       DateTime
	Descricao      string
}

// Principal is the authenticated caller bound to a request.
type Principal struct {
	ID    int64
	Login string
	Role  string
}

// Specialty is the closed set of professional specialties.
type Specialty string

const (
	SpecialtyPsicologia   Specialty = "PSICOLOGIA"
	SpecialtyOrientacao   Specialty = "ORIENTACAO"
	SpecialtyTerapiaGrupo Specialty = "TERAPIA_GRUPO"
	SpecialtyCoaching     Specialty = "COACHING"
	SpecialtyPsiquiatria  Specialty = "PSIQUIATRIA"
)

// Specialties lists every accepted Specialty in declaration order.
var Specialties = []Specialty{
	SpecialtyPsicologia,
	SpecialtyOrientacao,
	SpecialtyTerapiaGrupo,
	SpecialtyCoaching,
	SpecialtyPsiquiatria,
}

// Valid reports whether s is one of Specialties.
func (s Specialty) Valid() bool {
	for _, v := range Specialties {
		if s == v {
			return true
		}
	}
	return false
}

// SpecialtyNames returns the accepted values joined for error messages.
func SpecialtyNames() string {
	names := make([]string, len(Specialties))
	for i, s := range Specialties {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
