package obf

import (
	"strings"

	"github.com/tliron/commonlog"

	"warpaai/internal/ir"
)

// StringEncryptor XOR-encrypts eligible constant string globals and
// marks each processed object by appending the obfuscation suffix to
// its name. Eligible means: has an initializer, constant, linkage not
// external, payload a null-terminated string, and not already marked.
type StringEncryptor struct {
	Key byte
	// Encrypted accumulates the number of objects encrypted across
	// invocations.
	Encrypted int

	log commonlog.Logger
}

// NewStringEncryptor creates the pass for the given key byte.
func NewStringEncryptor(key byte) *StringEncryptor {
	return &StringEncryptor{
		Key: key,
		log: commonlog.GetLogger("warpaai.strings"),
	}
}

func (se *StringEncryptor) Name() string {
	return "String Encryption"
}

func (se *StringEncryptor) Description() string {
	return "XOR-encrypts eligible constant string globals and marks them with a name suffix"
}

// Apply never fails; an empty eligible set just yields no change. A key
// of 0 leaves bytes unchanged but still renames and counts the object.
func (se *StringEncryptor) Apply(m *ir.Module) (bool, error) {
	changed := false
	for _, g := range m.Globals {
		if !eligibleForEncryption(g) {
			continue
		}

		original := g.CString()
		encrypted := make([]byte, len(g.Init))
		for i, b := range g.Init {
			encrypted[i] = b ^ se.Key
		}
		g.Init = encrypted
		g.Name += obfSuffix

		se.Encrypted++
		changed = true
		se.log.Infof("encrypted string: %q (len=%d)", original, len(original))
	}
	return changed, nil
}

func eligibleForEncryption(g *ir.Global) bool {
	if !g.HasInitializer() || !g.Constant {
		return false
	}
	// External objects are ABI-visible and stay untouched.
	if g.Linkage == ir.LinkageExternal {
		return false
	}
	// The suffix marks objects processed in an earlier cycle.
	if strings.HasSuffix(g.Name, obfSuffix) {
		return false
	}
	return g.IsCString()
}
