package report

import (
	"encoding/json"
	"io"

	"github.com/eleven-am/fwaudit/internal/domain"
)

func RenderJSON(w io.Writer, r *domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
