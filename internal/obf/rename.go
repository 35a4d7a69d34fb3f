package obf

import (
	"strings"

	"github.com/tliron/commonlog"

	"warpaai/internal/ir"
)

// GlobalRenamer appends the obfuscation suffix to internal-linkage
// globals. Objects already bearing the obfuscation or encryption
// suffix are skipped, so repeated invocations never double-suffix the
// same object. Functions are never renamed.
type GlobalRenamer struct {
	// Renamed accumulates across invocations.
	Renamed int

	log commonlog.Logger
}

// NewGlobalRenamer creates the pass.
func NewGlobalRenamer() *GlobalRenamer {
	return &GlobalRenamer{log: commonlog.GetLogger("warpaai.rename")}
}

func (gr *GlobalRenamer) Name() string {
	return "Symbol Renaming"
}

func (gr *GlobalRenamer) Description() string {
	return "Appends an obfuscation suffix to internal-linkage globals"
}

func (gr *GlobalRenamer) Apply(m *ir.Module) (bool, error) {
	changed := false
	for _, g := range m.Globals {
		if g.Linkage != ir.LinkageInternal {
			continue
		}
		if strings.HasSuffix(g.Name, obfSuffix) || strings.HasSuffix(g.Name, encSuffix) {
			continue
		}

		oldName := g.Name
		g.Name += obfSuffix
		gr.Renamed++
		changed = true
		gr.log.Infof("renamed global: %s -> %s", oldName, g.Name)
	}
	return changed, nil
}
