package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// Fires the admin sync endpoint of a running server. Pass a source ID
// as the first argument to sync a single source.
func main() {
	adminSecret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
	if adminSecret == "" {
		fmt.Println("Missing ADMIN_SECRET environment variable")
		os.Exit(1)
	}

	base := os.Getenv("SERVER_URL")
	if base == "" {
		base = "http://localhost:8081"
	}

	url := base + "/api/v1/sync"
	if len(os.Args) > 1 {
		url += "/" + os.Args[1]
	}

	req, err := http.NewRequest("POST", url, nil)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("X-Admin-Secret", adminSecret)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	fmt.Printf("Response Status: %s\n", resp.Status)
	body, _ := io.ReadAll(resp.Body)
	fmt.Println(string(body))
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
