package core

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/proxy"

	"github.com/clf-downloader/clf/internal/utils"
)

// newTransport builds the HTTP transport for proxyURL. An empty or invalid
// proxy falls back to the HTTP_PROXY environment variables.
func newTransport(proxyURL string) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyFromEnvironment

	if proxyURL == "" {
		return transport
	}

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		utils.Debug("Remote service: Invalid proxy URL %s: %v", proxyURL, err)
		return transport
	}

	if strings.HasPrefix(parsedURL.Scheme, "socks5") {
		var auth *proxy.Auth
		if parsedURL.User != nil {
			password, _ := parsedURL.User.Password()
			auth = &proxy.Auth{User: parsedURL.User.Username(), Password: password}
		}
		dialer, dialErr := proxy.SOCKS5("tcp", parsedURL.Host, auth, proxy.Direct)
		if dialErr != nil {
			utils.Debug("Remote service: Failed to create SOCKS5 dialer: %v", dialErr)
			return transport
		}
		utils.Debug("Remote service: Using SOCKS5 proxy: %s", parsedURL.Host)
		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
		return transport
	}

	transport.Proxy = http.ProxyURL(parsedURL)
	return transport
}

// UseProxy routes the service's requests through proxyURL.
func (s *RemoteService) UseProxy(proxyURL string) {
	s.Client.Transport = newTransport(proxyURL)
}
