package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CommandType defines the type of the command.
type CommandType uint8

const (
	CmdUnknown    CommandType = 0
	CmdPlaceOrder CommandType = 1
	CmdPrint      CommandType = 2
)

// ErrMalformedCommand is returned for lines that are not valid commands.
// Replay counts and skips such lines.
var ErrMalformedCommand = errors.New("malformed command")

// Command is a single parsed line of the text protocol.
//
//	buy <qty> <price> <id>
//	sell <qty> <price> <id>
//	print [buy|sell|ledger|bank]
type Command struct {
	Type CommandType `json:"type"`

	// Place order fields.
	Side     Side    `json:"side,omitempty"`
	Quantity int64   `json:"quantity,omitempty"`
	Price    float64 `json:"price,omitempty"`
	TraderID int     `json:"trader_id,omitempty"`

	// Print fields.
	Report ReportType `json:"report,omitempty"`
}

// Parse parses one line of the text protocol. Blank lines and anything that is
// not a well-formed command return ErrMalformedCommand.
func Parse(line string) (*Command, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, ErrMalformedCommand
	}

	switch tokens[0] {
	case "buy":
		return parsePlaceOrder(SideBuy, tokens)
	case "sell":
		return parsePlaceOrder(SideSell, tokens)
	case "print":
		return parsePrint(tokens)
	}

	return nil, fmt.Errorf("%w: unknown command %q", ErrMalformedCommand, tokens[0])
}

func parsePlaceOrder(side Side, tokens []string) (*Command, error) {
	if len(tokens) != 4 {
		return nil, fmt.Errorf("%w: %s takes <qty> <price> <id>", ErrMalformedCommand, tokens[0])
	}

	qty, err := strconv.ParseInt(tokens[1], 10, 64)
	if err != nil || qty <= 0 {
		return nil, fmt.Errorf("%w: quantity %q must be a positive integer", ErrMalformedCommand, tokens[1])
	}

	// decimal rejects NaN and Inf, which ParseFloat accepts.
	price, err := decimal.NewFromString(tokens[2])
	if err != nil || !price.IsPositive() {
		return nil, fmt.Errorf("%w: price %q must be a positive decimal", ErrMalformedCommand, tokens[2])
	}

	id, err := strconv.Atoi(tokens[3])
	if err != nil {
		return nil, fmt.Errorf("%w: trader id %q must be an integer", ErrMalformedCommand, tokens[3])
	}

	return &Command{
		Type:     CmdPlaceOrder,
		Side:     side,
		Quantity: qty,
		Price:    price.InexactFloat64(),
		TraderID: id,
	}, nil
}

func parsePrint(tokens []string) (*Command, error) {
	if len(tokens) == 1 {
		return &Command{Type: CmdPrint, Report: ReportAll}, nil
	}
	if len(tokens) != 2 {
		return nil, fmt.Errorf("%w: print takes at most one argument", ErrMalformedCommand)
	}

	var report ReportType
	switch tokens[1] {
	case "buy":
		report = ReportBuy
	case "sell":
		report = ReportSell
	case "ledger":
		report = ReportLedger
	case "bank":
		report = ReportBank
	default:
		return nil, fmt.Errorf("%w: unknown report %q", ErrMalformedCommand, tokens[1])
	}

	return &Command{Type: CmdPrint, Report: report}, nil
}
