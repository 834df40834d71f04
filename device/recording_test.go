package device

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/artsniffer/rxdma/datarecording"
	"github.com/artsniffer/rxdma/driver"
)

var _ = Describe("Recorder", func() {
	var (
		db *sql.DB
	)

	count := func(table string) int {
		var n int
		Expect(db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n)).
			To(Succeed())

		return n
	}

	BeforeEach(func() {
		var err error
		db, err = sql.Open("sqlite3", ":memory:")
		Expect(err).NotTo(HaveOccurred())
		db.SetMaxOpenConns(1)
	})

	AfterEach(func() {
		db.Close()
	})

	It("should record every completion and interrupt", func() {
		d := MakeBuilder().
			WithSpec(Spec{Ports: 1, NumSlots: 8, Rearm: true, UseIRQ: true}).
			WithLogger(quietLogger()).
			WithSink(&driver.CollectSink{}).
			Build("Dev")

		rec := datarecording.NewWithDB(db)
		r := d.Record(rec)

		d.Send(0, incrementing(20, 1, 200, 3)...)
		Expect(d.Run(20, 100000)).To(Succeed())
		rec.Flush()

		Expect(r.Completions()).To(Equal(uint64(20)))
		Expect(count(CompletionTable)).To(Equal(20))
		Expect(count(SpecTable)).To(Equal(1))
		Expect(count(IRQTable)).To(BeNumerically(">", 0))

		var slot, length int
		Expect(db.QueryRow(
			"SELECT Slot, Length FROM " + CompletionTable + " ORDER BY Time LIMIT 1 OFFSET 8",
		).Scan(&slot, &length)).To(Succeed())
		Expect(slot).To(Equal(0))
		Expect(length).To(BeNumerically(">", 0))
	})
})
