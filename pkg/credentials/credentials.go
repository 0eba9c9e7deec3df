// Package credentials reads the object store credentials used to drain the dataset bucket.
//
// Credentials are stored in a dotenv file of KEY=VALUE lines. Lines starting with # are ignored.
// The file is optional: callers are expected to skip remote operations when it is absent or incomplete.
package credentials

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/oneconcern/datareset/pkg/errors"
	"github.com/spf13/afero"
)

// Recognized keys
const (
	KeyEndpoint        = "R2_ENDPOINT_URL"
	KeyAccessKeyID     = "R2_ACCESS_KEY_ID"
	KeySecretAccessKey = "R2_SECRET_ACCESS_KEY"
	KeyRegion          = "R2_REGION"
)

var (
	// ErrNotFound indicates that the credentials file does not exist
	ErrNotFound = errors.New("credentials file not found")

	// ErrIncomplete indicates that some required key is missing or empty
	ErrIncomplete = errors.New("incomplete credentials")

	// ErrMalformed indicates that the credentials file could not be parsed
	ErrMalformed = errors.New("malformed credentials file")
)

// Record holds the credentials to reach an S3-compatible object store
type Record struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
}

// Missing returns the required keys which are not set, in lexical order
func (r Record) Missing() []string {
	var missing []string
	for key, value := range map[string]string{
		KeyEndpoint:        r.Endpoint,
		KeyAccessKeyID:     r.AccessKeyID,
		KeySecretAccessKey: r.SecretAccessKey,
	} {
		if value == "" {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// String never prints the secret
func (r Record) String() string {
	return fmt.Sprintf("endpoint=%s access_key_id=%s", r.Endpoint, r.AccessKeyID)
}

// Parse credentials from a dotenv document.
//
// An incomplete record is returned along with ErrIncomplete.
func Parse(rdr io.Reader) (Record, error) {
	env, err := godotenv.Parse(rdr)
	if err != nil {
		return Record{}, ErrMalformed.Wrap(err)
	}
	rec := Record{
		Endpoint:        strings.TrimSpace(env[KeyEndpoint]),
		AccessKeyID:     strings.TrimSpace(env[KeyAccessKeyID]),
		SecretAccessKey: strings.TrimSpace(env[KeySecretAccessKey]),
		Region:          strings.TrimSpace(env[KeyRegion]),
	}
	if missing := rec.Missing(); len(missing) > 0 {
		return rec, ErrIncomplete.WrapMessage("missing " + strings.Join(missing, ", "))
	}
	return rec, nil
}

// Load credentials from a file
func Load(fs afero.Fs, path string) (Record, error) {
	file, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNotFound.WrapMessage(path)
		}
		return Record{}, fmt.Errorf("opening credentials file %s: %w", path, err)
	}
	defer file.Close()

	return Parse(file)
}
