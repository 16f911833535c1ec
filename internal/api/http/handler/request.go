package handler

import (
	"net"
	"net/http"
	"strings"

	"github.com/solvault/solvault-server/internal/model"
)

// requestMeta extracts client attribution for audit records. Proxy headers
// take precedence over the socket address.
func requestMeta(r *http.Request) model.RequestMeta {
	meta := model.RequestMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}
	if meta.IPAddress == "" {
		meta.IPAddress = "unknown"
	}
	if meta.UserAgent == "" {
		meta.UserAgent = "unknown"
	}
	return meta
}

func clientIP(r *http.Request) string {
	xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
