package menuia

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// reply é a resposta do gateway. Os campos chegam em formatos variados:
// status como número ou texto, message como objeto, como JSON dentro de
// uma string ou como texto puro. Nada daqui sai do pacote.
type reply struct {
	status  int
	hasCode bool
	text    string
	fields  map[string]any
}

func parseReply(body []byte) reply {
	var env struct {
		Status  json.RawMessage `json:"status"`
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(body), &env); err != nil {
		return reply{text: strings.TrimSpace(string(body))}
	}

	r := reply{}
	r.status, r.hasCode = parseStatus(env.Status)
	r.fields, r.text = parseMessage(env.Message)
	return r
}

func parseStatus(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n, true
		}
		switch strings.ToLower(s) {
		case "success", "ok", "true":
			return 200, true
		}
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		if b {
			return 200, true
		}
		return 400, true
	}

	return 0, false
}

func parseMessage(raw json.RawMessage) (map[string]any, string) {
	if len(raw) == 0 {
		return nil, ""
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj, ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, string(raw)
	}

	// objeto serializado dentro da string
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
			return obj, ""
		}
	}
	return nil, s
}

// field procura a primeira chave presente com valor textual.
func (r reply) field(keys ...string) string {
	for _, k := range keys {
		if v, ok := r.fields[k]; ok {
			switch t := v.(type) {
			case string:
				if t != "" {
					return t
				}
			case float64:
				return strconv.FormatFloat(t, 'f', -1, 64)
			}
		}
	}
	return ""
}

// ok aceita ausência de status como sucesso quando o HTTP já foi 2xx.
func (r reply) ok() bool {
	return !r.hasCode || r.status == 200
}
