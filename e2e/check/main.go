// Manual smoke test for a running authgate: mints an HS256 token with the
// given secret and sends it through /authz/check.
package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("Usage: %s <jwt-secret> [server-addr]", os.Args[0])
	}

	secret := os.Args[1]
	serverAddr := "http://localhost:8085"
	if len(os.Args) > 2 {
		serverAddr = os.Args[2]
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "e2e-user",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	req, err := http.NewRequest(http.MethodGet, serverAddr+"/authz/check", nil)
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+tokenString)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}

	if resp.StatusCode == http.StatusOK {
		fmt.Println("request ALLOWED")
		fmt.Println("\nIdentity headers received:")
		for k, v := range resp.Header {
			if strings.HasPrefix(strings.ToLower(k), "x-") {
				fmt.Printf("  %s: %s\n", k, strings.Join(v, ", "))
			}
		}
		return
	}

	fmt.Printf("request REJECTED (status %d)\n", resp.StatusCode)
	fmt.Printf("Body: %s\n", string(body))
	os.Exit(1)
}
