package match

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/0x5487/heap-market/protocol"
	"github.com/0x5487/heap-market/structure"
)

// PrintBuy writes the buy book as a tree rotated a quarter turn: the right
// subtree on top, each level indented further.
func (m *Market) PrintBuy(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return printBook(w, "*** Buy Limit Orders ***", m.buyBook)
}

// PrintSell writes the sell book in the same layout as PrintBuy.
func (m *Market) PrintSell(w io.Writer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return printBook(w, "*** Sell Limit Orders ***", m.sellBook)
}

func printBook(w io.Writer, header string, book *structure.Heap[Order]) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, header)
	book.Walk(func(o Order, depth int) {
		fmt.Fprintln(bw)
		fmt.Fprintf(bw, "%s%s\n", strings.Repeat(" ", depth*treeIndent), o)
	})
	return bw.Flush()
}

// PrintLedger writes one line per trader in ascending id:
// id:balance:holdings:(buys):(sells).
func (m *Market) PrintLedger(w io.Writer) error {
	m.mu.Lock()
	records := m.ledger.Records()
	m.mu.Unlock()

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "*** Transaction Record ***")
	for _, rec := range records {
		fmt.Fprintf(bw, "%d:%s:%d:%s:%s\n",
			rec.TraderID, formatAmount(rec.Balance), rec.Holdings,
			formatOrders(rec.Buys), formatOrders(rec.Sells))
	}
	return bw.Flush()
}

func formatOrders(orders []Order) string {
	parts := make([]string, len(orders))
	for i, o := range orders {
		parts[i] = o.String()
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// PrintBank writes the accumulated spread profit.
func (m *Market) PrintBank(w io.Writer) error {
	_, err := fmt.Fprintf(w, "*** Bank Profit ***\n$ %s\n", formatAmount(m.BankBalance()))
	return err
}

// Print writes both books, the ledger and the bank.
func (m *Market) Print(w io.Writer) error {
	for _, fn := range []func(io.Writer) error{m.PrintBuy, m.PrintSell, m.PrintLedger, m.PrintBank} {
		if err := fn(w); err != nil {
			return err
		}
	}
	return nil
}

// Execute applies one parsed command: a submission, or a report written to w.
func (m *Market) Execute(cmd *protocol.Command, w io.Writer) error {
	if cmd == nil {
		return ErrInvalidParam
	}

	switch cmd.Type {
	case protocol.CmdPlaceOrder:
		switch cmd.Side {
		case Buy:
			return m.SubmitBuy(cmd.Price, cmd.Quantity, cmd.TraderID)
		case Sell:
			return m.SubmitSell(cmd.Price, cmd.Quantity, cmd.TraderID)
		}
		return fmt.Errorf("%w: side %d", ErrInvalidParam, cmd.Side)
	case protocol.CmdPrint:
		switch cmd.Report {
		case protocol.ReportAll:
			return m.Print(w)
		case protocol.ReportBuy:
			return m.PrintBuy(w)
		case protocol.ReportSell:
			return m.PrintSell(w)
		case protocol.ReportLedger:
			return m.PrintLedger(w)
		case protocol.ReportBank:
			return m.PrintBank(w)
		}
		return fmt.Errorf("%w: report %d", ErrInvalidParam, cmd.Report)
	}

	return fmt.Errorf("%w: %d", ErrUnknownCommand, cmd.Type)
}
