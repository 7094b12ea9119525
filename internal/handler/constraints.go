package handler

import (
	"net/http"

	"github.com/roster/roster/internal/constraints"
)

// ConstraintLibrary 返回求解引擎内置的约束库
func ConstraintLibrary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, constraints.LibraryResponse{
		Library: constraints.GetLibrary(),
	})
}
