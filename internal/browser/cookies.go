package browser

import (
	"encoding/json"
	"os"

	"github.com/go-rod/rod/lib/proto"
)

// Cookie is the on-disk form of a browser cookie.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

func LoadCookies(path string) ([]*proto.NetworkCookieParam, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cookies []Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, err
	}

	params := make([]*proto.NetworkCookieParam, len(cookies))
	for i, c := range cookies {
		params[i] = c.ToParam()
	}
	return params, nil
}

func SaveCookies(path string, cookies []*proto.NetworkCookie) error {
	out := make([]Cookie, len(cookies))
	for i, c := range cookies {
		out[i] = FromNetworkCookie(c)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func FromNetworkCookie(c *proto.NetworkCookie) Cookie {
	return Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Expires:  float64(c.Expires),
		HTTPOnly: c.HTTPOnly,
		Secure:   c.Secure,
		SameSite: string(c.SameSite),
	}
}

func (c Cookie) ToParam() *proto.NetworkCookieParam {
	p := &proto.NetworkCookieParam{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		HTTPOnly: c.HTTPOnly,
		Secure:   c.Secure,
	}

	//Session cookies are stored with a negative expiry
	if c.Expires > 0 {
		p.Expires = proto.TimeSinceEpoch(c.Expires)
	}

	switch c.SameSite {
	case "Lax":
		p.SameSite = proto.NetworkCookieSameSiteLax
	case "Strict":
		p.SameSite = proto.NetworkCookieSameSiteStrict
	case "None":
		p.SameSite = proto.NetworkCookieSameSiteNone
	}

	return p
}
