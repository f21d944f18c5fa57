package keyring

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ralt/aptsources/internal/utils"
	"github.com/sirupsen/logrus"
)

// FilePrefix namespaces the keyrings this tool installs
const FilePrefix = "aptsources-"

// Resolver maps signing key ids to keyring files in a keyrings directory
type Resolver struct{}

// KeyringPath returns the keyring path for keyID inside baseDir.
// The file is named after the last 8 characters of the key id.
func (Resolver) KeyringPath(keyID, baseDir string) string {
	return Path(keyID, baseDir)
}

// InstallFile installs the key for keyID from keyPath into baseDir
func (Resolver) InstallFile(keyPath, keyID, baseDir string) (bool, error) {
	return InstallFile(keyPath, keyID, baseDir)
}

// Path returns the keyring path for keyID inside baseDir
func Path(keyID, baseDir string) string {
	keyID = normalizeKeyID(keyID)
	short := keyID
	if len(short) > 8 {
		short = short[len(short)-8:]
	}
	return filepath.Join(baseDir, FilePrefix+short+".gpg")
}

// InstallFile installs the key for keyID from keyPath into baseDir
func InstallFile(keyPath, keyID, baseDir string) (bool, error) {
	if keyPath == "" {
		return false, fmt.Errorf("key path is empty")
	}

	data, err := os.ReadFile(keyPath)
	if err != nil {
		return false, fmt.Errorf("failed to read key file: %w", err)
	}
	return Install(bytes.NewReader(data), keyID, baseDir)
}

// Install reads an armored or binary OpenPGP key from r and writes the public
// key matching keyID as a binary keyring. Returns true if the keyring changed.
func Install(r io.ReadSeeker, keyID, baseDir string) (bool, error) {
	entities, err := ReadKeys(r)
	if err != nil {
		return false, err
	}

	entity := FindKey(entities, keyID)
	if entity == nil {
		return false, fmt.Errorf("no key matching %s found", keyID)
	}

	var buf bytes.Buffer
	if err := entity.Serialize(&buf); err != nil {
		return false, fmt.Errorf("failed to serialize key: %w", err)
	}

	path := Path(keyID, baseDir)
	changed, err := utils.WriteFileIfChanged(path, buf.Bytes(), 0644)
	if err != nil {
		return false, err
	}
	if changed {
		logrus.Infof("Installed keyring %s for key %s", path, keyID)
	} else {
		logrus.Debugf("Ignoring unchanged keyring: %s", path)
	}
	return changed, nil
}

// ReadKeys parses an armored key ring, falling back to a binary one
func ReadKeys(r io.ReadSeeker) (openpgp.EntityList, error) {
	entities, err := openpgp.ReadArmoredKeyRing(r)
	if err != nil {
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		entities, err = openpgp.ReadKeyRing(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
	}

	if len(entities) == 0 {
		return nil, fmt.Errorf("no keys found in key file")
	}
	return entities, nil
}

// FindKey returns the entity whose fingerprint ends with keyID
func FindKey(entities openpgp.EntityList, keyID string) *openpgp.Entity {
	keyID = normalizeKeyID(keyID)
	if keyID == "" {
		return nil
	}
	for _, entity := range entities {
		if strings.HasSuffix(Fingerprint(entity), keyID) {
			return entity
		}
	}
	return nil
}

// Fingerprint returns the upper-case hex fingerprint of the primary key
func Fingerprint(entity *openpgp.Entity) string {
	return strings.ToUpper(hex.EncodeToString(entity.PrimaryKey.Fingerprint))
}

func normalizeKeyID(keyID string) string {
	keyID = strings.ReplaceAll(keyID, " ", "")
	keyID = strings.TrimPrefix(strings.TrimPrefix(keyID, "0x"), "0X")
	return strings.ToUpper(keyID)
}
