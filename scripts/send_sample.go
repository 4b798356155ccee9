//go:build ignore
// +build ignore

// send_sample posts a sample form submission to a running middleware.
//
//	go run scripts/send_sample.go [-event update_answer] [-drop k9ce0p]
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func sampleEvent(event string, drop string) map[string]interface{} {
	answers := []map[string]interface{}{
		{"qid": "k9ce0p", "type": "input", "title": "姓名｜Name", "value": "曹宇宸"},
		{"qid": "br1kvx", "type": "numberInput", "title": "学号｜Student ID", "value": 20808382},
		{"qid": "wdfqio", "type": "select", "title": "性别 | Gender", "value": []string{"男 / Male"}},
		{"qid": "30f4xe", "type": "email", "title": "UNNC邮箱｜UNNC Email", "value": "scxyc5@nottingham.edu.cn"},
		{"qid": "7wpvum", "type": "telphone", "title": "手机号｜Telephone Number", "value": "18740036416"},
	}

	kept := make([]map[string]interface{}, 0, len(answers))
	for _, a := range answers {
		if a["qid"] != drop {
			kept = append(kept, a)
		}
	}

	return map[string]interface{}{
		"rid":            "8MgaqP3NGp",
		"formId":         "20250713140244212536986",
		"formTitle":      "2025 宁诺计算机爱好者协会秋季招新网申通道",
		"aid":            "20250801211602567329515",
		"eventTs":        1754054163000,
		"messageTs":      1754054306994,
		"creatorId":      "447366960",
		"creatorName":    "Schneider",
		"event":          event,
		"version":        2,
		"answerContents": kept,
	}
}

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "9732"
	}

	baseURL := flag.String("url", "http://localhost:"+port, "middleware base URL")
	event := flag.String("event", "create_answer", "event type to send")
	drop := flag.String("drop", "", "qid of an answer to leave out")
	flag.Parse()

	fmt.Println("=== Lottery Webhook Middleware - Sample Submission ===")

	body, err := json.Marshal(sampleEvent(*event, *drop))
	if err != nil {
		fmt.Printf("❌ Failed to encode sample: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 10 * time.Second}

	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("❌ Middleware not reachable: %v\n", err)
		os.Exit(1)
	}
	health, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	fmt.Printf("✅ Health: %s\n", bytes.TrimSpace(health))

	resp, err = client.Post(*baseURL+"/webhook/jinshan", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("❌ Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("📨 Status: %d\n", resp.StatusCode)
	fmt.Printf("📨 Body:   %s\n", bytes.TrimSpace(respBody))
	fmt.Println("Relay results are written to the middleware log.")
}
