package rest

import (
	"fmt"
	"math/big"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"

	"github.com/edgex-Tech/edgex-sdk-go/starkex"
)

// Authentication headers for private endpoints.
const (
	HeaderTimestamp = "X-edgeX-Api-Timestamp"
	HeaderSignature = "X-edgeX-Api-Signature"
)

// needsAuth reports whether a path requires request signing.
func (c *Client) needsAuth(path string) bool {
	return c.signer != nil && strings.Contains(path, "/private/")
}

// SignatureHeaders signs timestamp+method+path+paramStr with the Stark key.
// The content is hashed with SHA3-256 and reduced into the curve's scalar
// field before signing. The same scheme authenticates REST requests and the
// private WebSocket handshake.
func SignatureHeaders(signer *starkex.Signer, method, path, paramStr string) (http.Header, error) {
	timestampMs := time.Now().UnixMilli()

	content := strconv.FormatInt(timestampMs, 10) + method + path + paramStr
	digest := sha3.Sum256([]byte(content))

	sig, err := signer.Sign(new(big.Int).SetBytes(digest[:]))
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set(HeaderTimestamp, strconv.FormatInt(timestampMs, 10))
	header.Set(HeaderSignature, sig.String())
	return header, nil
}

// paramString renders a request body as sorted k=v pairs for signing.
// Sorting keeps the signed content canonical regardless of map iteration.
func paramString(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+stringify(params[k]))
	}
	return strings.Join(pairs, "&")
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case []string:
		return strings.Join(t, ",")
	default:
		return fmt.Sprint(t)
	}
}
