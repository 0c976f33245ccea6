package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// Output receives every dumped request/response pair.
type Output interface {
	Write(id string, contents string)
}

// FilesystemOutput writes every exchange to its own file in a directory.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput empties dir (or creates it) and writes exchanges into it.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0644)
	if err != nil {
		slog.Warn("failed to write http exchange", "id", id, "err", err)
	}
}

// DumpExchanges writes every response the client receives, together with its request,
// to output. Files are named "<n>-<method>.txt" in the order responses arrive.
func DumpExchanges(client *resty.Client, output Output) {
	var counter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		id := atomic.AddUint64(&counter, 1)
		output.Write(fmt.Sprintf("%03d-%s.txt", id, res.Request.Method), formatExchange(res))
		return nil
	})
}
