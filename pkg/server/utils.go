package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

func ResponseJson(w http.ResponseWriter, v interface{}) {
	ResponseJsonCode(w, http.StatusOK, v)
}

func ResponseJsonCode(w http.ResponseWriter, code int, v interface{}) {
	str, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(str)
}

func ResponseMsg(w http.ResponseWriter, code int, message string) {
	ret := struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}{
		Code:    code,
		Message: message,
	}
	ResponseJsonCode(w, code, ret)
}

func GetArg(r *http.Request, name string) (string, bool) {
	vars := mux.Vars(r)
	value, ok := vars[name]
	return value, ok
}
