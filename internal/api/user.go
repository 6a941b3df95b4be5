package api

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
)

// EncodeUser encodes and signs a reviewer external id. extra parameters are
// signed along with the id and the current date.
func (c *Client) EncodeUser(id string, extra url.Values) (string, error) {
	if c.cfg.EncodingKey == "" {
		return "", ErrNoEncodingKey
	}

	values := url.Values{}
	for k, vs := range extra {
		values[k] = append([]string(nil), vs...)
	}

	values.Set("userid", id)
	values.Set("date", c.now().Format("20060102"))

	query := values.Encode()
	sum := md5.Sum([]byte(c.cfg.EncodingKey + query))

	return hex.EncodeToString(sum[:]) + hex.EncodeToString([]byte(query)), nil
}
