package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"esenciafest-backend/internal/client"
	"esenciafest-backend/internal/models"
)

// kiosk is a terminal attendee client: login, browse rooms, enter one,
// mark it completed. It drives the same SDK the graphical frontends
// embed.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	baseURL := getEnvOrDefault("API_URL", "http://localhost:8080")
	stateDir := getEnvOrDefault("KIOSK_STATE_DIR", ".kiosk-state")

	session, err := client.NewSession(baseURL, stateDir)
	if err != nil {
		log.Fatalf("✗ Failed to initialize session: %v", err)
	}
	defer session.Close()

	session.OnLogout(func() {
		fmt.Println("\n👋 Session ended")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	session.Start(ctx)

	fmt.Println("🎪 Esencia Fest kiosk")
	fmt.Println("Commands: login, rooms, enter <id>, leave <id>, complete <id>, progress, logout, quit")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "login":
			doLogin(ctx, session, scanner)
		case "rooms":
			printRooms(session)
		case "enter":
			if len(fields) < 2 {
				fmt.Println("usage: enter <roomId>")
				continue
			}
			enterRoom(session, fields[1])
		case "leave":
			if len(fields) < 2 {
				fmt.Println("usage: leave <roomId>")
				continue
			}
			session.LeaveRoom(fields[1], time.Now())
			fmt.Printf("Left %s\n", fields[1])
		case "complete":
			if len(fields) < 2 {
				fmt.Println("usage: complete <roomId>")
				continue
			}
			if err := session.CompleteRoom(ctx, fields[1]); err != nil {
				fmt.Printf("✗ Failed to record completion: %v\n", err)
			} else {
				fmt.Printf("✓ %s completed\n", fields[1])
			}
		case "progress":
			printProgress(session)
		case "logout":
			if err := session.Logout(); err != nil {
				fmt.Printf("✗ Logout broadcast failed: %v\n", err)
			}
		case "quit", "exit":
			return
		default:
			fmt.Printf("Unknown command %q\n", fields[0])
		}
	}
}

func doLogin(ctx context.Context, session *client.Session, scanner *bufio.Scanner) {
	email := prompt(scanner, "Email: ")
	req := models.AuthRequest{Email: email}

	user, err := session.Login(ctx, req)
	if client.IsRegistrationRequired(err) {
		fmt.Println("First visit, let's register you.")
		req.Name = prompt(scanner, "Name: ")
		req.Lastname = prompt(scanner, "Lastname: ")
		req.Country = prompt(scanner, "Country: ")
		req.Negocio = prompt(scanner, "Negocio: ")
		user, err = session.Login(ctx, req)
	}
	if err != nil {
		fmt.Printf("✗ Login failed: %v\n", err)
		return
	}

	fmt.Printf("✓ Welcome, %s %s!\n", user.Name, user.Lastname)
}

func printRooms(session *client.Session) {
	now := time.Now()
	for _, room := range models.AllRooms() {
		mark := "🔒"
		note := ""
		if session.RoomAvailable(room.ID, now) {
			mark = "🟢"
		} else if countdown, ok := session.Countdown(room.ID, now); ok {
			note = " (opens in " + countdown + ")"
		}
		fmt.Printf("  %s %-10s %s%s\n", mark, room.ID, room.Name, note)
	}
}

func enterRoom(session *client.Session, roomID string) {
	err := session.EnterRoom(roomID, time.Now())
	switch err {
	case nil:
		fmt.Printf("Entered %s, content loads within %s\n", roomID, client.EmbedLoadTimeout)
	case client.ErrRoomLocked:
		fmt.Printf("🔒 %s is locked\n", roomID)
	case client.ErrNotAuthenticated:
		fmt.Println("Login first")
	default:
		fmt.Printf("✗ %v\n", err)
	}
}

func printProgress(session *client.Session) {
	progress := session.Progress()
	fmt.Printf("Progress: %d%% (%s)\n", progress.CurrentProgress, strings.Join(progress.CompletedRooms, ", "))
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
