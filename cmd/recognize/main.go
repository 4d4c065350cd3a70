// Command recognize plays the browser's role in the recognition flow: it
// compresses an image client-side until it fits the transmission budget,
// POSTs it to a running server and prints the JSON result.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bauerDev/oda-server/internal/imaging"
)

const targetBytes = 250 * 1024

func main() {
	server := flag.String("server", "http://localhost:8080", "base URL of the oda server")
	file := flag.String("file", "", "path to the image to analyze")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: recognize -file image.jpg [-server http://localhost:8080]")
		os.Exit(1)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal("Failed to read image:", err)
	}

	mimeType := imaging.DetectMIME(data)
	if !imaging.IsAllowedMIME(mimeType) {
		log.Fatal("Unsupported image type. Use JPG, PNG, WEBP or GIF.")
	}

	compressed, err := imaging.CompressUnderLimit(data, targetBytes)
	if err != nil {
		log.Fatal("Failed to compress image:", err)
	}
	fmt.Printf("Compressed %d -> %d bytes\n", len(data), len(compressed))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filepath.Base(*file))
	if err != nil {
		log.Fatal("Failed to build request:", err)
	}
	if _, err := part.Write(compressed); err != nil {
		log.Fatal("Failed to build request:", err)
	}
	writer.Close()

	resp, err := http.Post(*server+"/api/ai-recognition", writer.FormDataContentType(), &body)
	if err != nil {
		log.Fatal("Request failed:", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal("Failed to read response:", err)
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Server returned %d:\n%s\n", resp.StatusCode, respBody)
		os.Exit(1)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, respBody, "", "  "); err != nil {
		fmt.Println(string(respBody))
		return
	}
	fmt.Println(pretty.String())
}
