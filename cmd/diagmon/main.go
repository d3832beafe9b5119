// Command diagmon reads the panel's diagnostic UART stream from a serial
// port and prints rolling statistics.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"go.bug.st/serial"

	"envpanel-go/services/diag"
)

func main() {
	var (
		dev    = flag.String("p", "", "serial port (e.g. /dev/ttyACM0 or COM3)")
		baud   = flag.Int("baud", 115200, "baud rate")
		size   = flag.Int("window", 10, "lines per statistics window")
		list   = flag.Bool("list", false, "list serial ports and exit")
		rawOut = flag.Bool("raw", false, "echo every parsed line")
	)
	flag.Parse()

	if *list {
		ports, err := serial.GetPortsList()
		if err != nil {
			log.Fatalf("failed to list serial ports: %v", err)
		}
		for _, p := range ports {
			fmt.Println(p)
		}
		return
	}
	if *dev == "" {
		log.Fatal("no serial port given; use -p or -list")
	}

	port, err := serial.Open(*dev, &serial.Mode{BaudRate: *baud})
	if err != nil {
		log.Fatalf("failed to open serial port %s: %v", *dev, err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		port.Close()
	}()

	if err := monitor(port, os.Stdout, *size, *rawOut); err != nil {
		log.Fatalf("read %s: %v", *dev, err)
	}
}

// monitor consumes diagnostic lines from r until EOF and writes one summary
// per window to out. Unparseable lines are logged and skipped; a partial
// final window is flushed.
func monitor(r io.Reader, out io.Writer, size int, raw bool) error {
	w := newWindow(size)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		rec, err := diag.ParseLine(sc.Text())
		if err != nil {
			if sc.Text() != "" {
				log.Printf("skip %q: %v", sc.Text(), err)
			}
			continue
		}
		if raw {
			fmt.Fprintf(out, "%+v\n", rec)
		}
		if w.add(rec) {
			fmt.Fprintln(out, w)
			w.reset()
		}
	}
	if w.lines > 0 {
		fmt.Fprintln(out, w)
	}
	return sc.Err()
}
