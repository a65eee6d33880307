package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"time"

	"github.com/vlatan/advocacy-site/internal/models"
)

// HttpError provides shorter handling of http error
func HttpError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

// WriteJSON converts the data into JSON-formatted string
// and writes the output to response with the given status
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	// Encode data to JSON
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to encode JSON response on URI '%s': %v", r.RequestURI, err)
		HttpError(w, http.StatusInternalServerError)
		return
	}

	// Set content type before writing the status code
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(jsonData); err != nil {
		// Too late for recovery here, just log the error
		log.Printf("Failed to write JSON to response on URI '%s': %v", r.RequestURI, err)
	}
}

// JSONError writes JSON error to response.
// Falls back to the status text if no message.
func JSONError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if message == "" {
		message = http.StatusText(status)
	}

	WriteJSON(w, r, status, models.JSONErrorData{
		Error: message,
		Code:  status,
	})
}

// CacheControl returns a public Cache-Control directive
// for shared and browser caches with the same max age
func CacheControl(maxAge time.Duration) string {
	seconds := int(maxAge.Seconds())
	return fmt.Sprintf("public, max-age=%d, s-maxage=%d", seconds, seconds)
}

// ClientIP returns the IP of the client.
// Proxy headers are only believed when the request comes from a trusted proxy,
// otherwise anyone could pick their own address.
func ClientIP(r *http.Request, trusted []netip.Prefix) string {

	remote := remoteHost(r.RemoteAddr)
	if !isTrusted(remote, trusted) {
		return remote
	}

	if ip := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}

	// Walk the chain from the right, the first hop
	// that is not one of our proxies is the client
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		hops := strings.Split(forwarded, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if !isTrusted(hop, trusted) || i == 0 {
				return hop
			}
		}
	}

	return remote
}

func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

func isTrusted(ip string, trusted []netip.Prefix) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}

	addr = addr.Unmap()
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}

	return false
}

// IsContextErr checks if the error is due to the context being cancelled or timed out
func IsContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
