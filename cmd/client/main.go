// Command client is a terminal client for manual smoke testing: it
// speaks the JSON envelope over a WebSocket and prints every server
// event as it arrives.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Marioarttv/Arcane-Coop-sub000/pkg/messages"
	"nhooyr.io/websocket"
)

func main() {
	serverAddr := flag.String("server", "ws://localhost:8080/ws", "WebSocket server address")
	room := flag.String("room", "lobby", "Room id to join")
	game := flag.String("game", "runelock", "Game variant")
	name := flag.String("name", "smoke", "Display name")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *serverAddr, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to %s: %v\n", *serverAddr, err)
		os.Exit(1)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")
	conn.SetReadLimit(messages.MessageBufferSize)

	go readLoop(ctx, conn)

	send := func(msgType string, payload interface{}) {
		msg, err := messages.New(msgType, *room, *game, payload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to build message: %v\n", err)
			return
		}
		b, _ := json.Marshal(msg)
		if err := conn.Write(ctx, websocket.MessageText, b); err != nil {
			fmt.Fprintf(os.Stderr, "failed to send: %v\n", err)
		}
	}

	send(messages.MessageTypeClientJoinRoom, messages.ClientJoinRoom{Name: *name})
	send(messages.MessageTypeClientJoinGame, messages.ClientJoinGame{Name: *name})

	fmt.Println("commands: act <action> <json> | hint | restart | chat <text> | quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.SplitN(scanner.Text(), " ", 3)
		switch fields[0] {
		case "act":
			if len(fields) < 2 {
				fmt.Println("usage: act <action> <json>")
				continue
			}
			data := json.RawMessage("{}")
			if len(fields) == 3 {
				data = json.RawMessage(fields[2])
			}
			send(messages.MessageTypeClientAction, messages.ClientAction{Action: fields[1], Data: data})
		case "hint":
			send(messages.MessageTypeClientHint, nil)
		case "restart":
			send(messages.MessageTypeClientRestart, nil)
		case "chat":
			if len(fields) < 2 {
				continue
			}
			send(messages.MessageTypeClientChat, messages.ClientChat{Text: strings.Join(fields[1:], " ")})
		case "quit":
			return
		default:
			fmt.Println("unknown command")
		}
	}
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "connection closed: %v\n", err)
			os.Exit(0)
		}
		msg := &messages.Message{}
		if err := json.Unmarshal(data, msg); err != nil {
			fmt.Fprintf(os.Stderr, "bad message: %v\n", err)
			continue
		}
		fmt.Printf("<- %s %s\n", msg.Type, string(msg.Payload))
	}
}
