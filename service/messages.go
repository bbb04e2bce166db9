package service

import (
	"errors"

	"selecionei-client/api"
)

// User-facing messages. The product ships in Brazilian Portuguese.
const (
	MsgConnection      = "Erro de conexão. Tente novamente."
	MsgLoginFailed     = "Erro no login"
	MsgRegisterFailed  = "Erro no registro"
	MsgAnalysisFailed  = "Erro na análise"
	MsgPaymentFailed   = "Erro ao criar pagamento"
	MsgUnsupportedFile = "Tipo de arquivo não suportado. Use PDF, TXT, DOC ou DOCX."
	MsgMissingFile     = "Por favor, selecione um arquivo de currículo"
	MsgQuotaReached    = "Limite de análises atingido. Faça upgrade do seu plano!"
	MsgLoginRequired   = "Faça login para continuar"
	MsgLeadThanks      = "Obrigado! Crie sua conta para ganhar 5 análises grátis! 🎉"
)

var (
	// ErrBusy is returned when an operation guarded by the in-flight slot is already running
	ErrBusy = errors.New("operation already in progress")

	// ErrUnknownPage is returned by Navigate for pages outside the fixed set
	ErrUnknownPage = errors.New("unknown page")

	// ErrSuperseded is returned when a response arrived after logout or reset and was dropped
	ErrSuperseded = errors.New("response discarded: session changed while request was in flight")

	// ErrClosed is returned for operations attempted after Close
	ErrClosed = errors.New("app closed")
)

// ValidationError is a locally detected problem that never reached the network
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// userMessage maps a backend error onto the single error slot: the server's
// own message for structured failures, the fixed connection message otherwise
func userMessage(err error, fallback string) string {
	var respErr *api.ResponseError
	if errors.As(err, &respErr) {
		if respErr.Message != "" {
			return respErr.Message
		}
		return fallback
	}
	return MsgConnection
}
