package sigseg

import (
	"fmt"
	"os"
)

// ExitCodeFault — код выхода процесса при сбое (128 + SIGSEGV).
const ExitCodeFault = 139

// Fault описывает фатальный сбой, вызванный доставленным сообщением.
type Fault struct {
	MessageID   int
	DeliveryTag uint64
	Redelivered bool
}

func (f Fault) String() string {
	return fmt.Sprintf("fault on message %d (delivery tag %d, redelivered %t)",
		f.MessageID, f.DeliveryTag, f.Redelivered)
}

// FaultFunc получает управление, когда consumer становится Defunct.
type FaultFunc func(Fault)

// Crash завершает процесс немедленно.
//
// os.Exit не выполняет defer и не проходит через recover, поэтому
// доставка остаётся без ack, а в логе не появляется ни строчки о сбое.
func Crash(Fault) {
	os.Exit(ExitCodeFault)
}
