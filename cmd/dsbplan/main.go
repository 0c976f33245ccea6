package main

import (
	"dsbplan-backend/cmd/dsbplan/commands"
	"dsbplan-backend/pkg/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
