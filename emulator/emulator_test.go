package emulator_test

import (
	"bytes"
	"errors"
	"maps"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/mipsim/cpu"
	"github.com/ezrec/mipsim/emulator"
	"github.com/ezrec/mipsim/memory"
)

func source(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n"))
}

var _ = Describe("Emulator", func() {
	var (
		e      *emulator.Emulator
		output *bytes.Buffer
	)

	BeforeEach(func() {
		output = &bytes.Buffer{}
		e = emulator.NewEmulator()
		e.Terminal.Output = output
	})

	Describe("NewEmulator", func() {
		It("should start with an empty program", func() {
			Expect(e.Program).NotTo(BeNil())
			Expect(e.Program.Instructions).To(BeEmpty())
			Expect(e.Memory()).NotTo(BeNil())
			Expect(e.Pc()).To(Equal(uint32(0)))
		})

		It("should publish the defines of every component", func() {
			defines := maps.Collect(e.Defines())
			Expect(defines).To(HaveKey("STEP_LIMIT"))
			Expect(defines).To(HaveKeyWithValue("STACK_POINTER", "0x7ffffffc"))
			Expect(defines).To(HaveKeyWithValue("STACK_TOP", "0x80000000"))
		})
	})

	Describe("Assemble", func() {
		It("should make the defines available as equates", func() {
			err := e.Assemble(source(
				".text",
				"main: li $t0, STACK_TOP",
			))
			Expect(err).NotTo(HaveOccurred())
			e.Reset()

			_, _, err = e.Run(0)
			Expect(err).To(MatchError(cpu.ErrPcRange))
			Expect(e.Cpu.Register[cpu.REG_T0]).To(Equal(memory.STACK_TOP))
		})

		It("should apply predefines over the defines", func() {
			e.Predefine("COUNT", "3")
			e.Predefine("STACK_TOP", "4")
			err := e.Assemble(source(
				".text",
				"main: addi $t0, $zero, COUNT",
				"addi $t1, $zero, STACK_TOP",
			))
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Program.Instructions[0].Imm).To(Equal(int32(3)))
			Expect(e.Program.Instructions[1].Imm).To(Equal(int32(4)))
		})

		It("should keep a program with errors", func() {
			err := e.Assemble(source(
				".text",
				"main: frob",
				"nop",
			))
			Expect(err).To(MatchError(cpu.ErrOpcodeInvalid))
			Expect(e.Program.Instructions).To(HaveLen(1))
		})

		It("should discard a program with errors when strict", func() {
			e.Strict = true
			err := e.Assemble(source(
				".text",
				"main: frob",
				"nop",
			))
			Expect(err).To(MatchError(cpu.ErrOpcodeInvalid))
			Expect(e.Program.Instructions).To(BeEmpty())
		})
	})

	Describe("Run", func() {
		It("should load a data word through the global pointer", func() {
			Expect(e.Assemble(source(
				".data",
				"foo: .word 5",
				".text",
				"main:",
				"addi $t0, $zero, 10",
				"lw $t1, 0($gp)",
				"li $v0, 10",
				"syscall",
			))).To(Succeed())
			e.Reset()

			Expect(e.Pc()).To(Equal(uint32(0)))
			Expect(e.Cpu.Register[cpu.REG_GP]).To(Equal(uint32(20)))

			steps, done, err := e.Run(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(done).To(BeTrue())
			Expect(steps).To(Equal(5))

			registers := maps.Collect(e.Registers())
			Expect(registers).To(HaveKeyWithValue("$t0", uint32(10)))
			Expect(registers).To(HaveKeyWithValue("$t1", uint32(5)))
		})

		It("should print a string", func() {
			Expect(e.Assemble(source(
				".data",
				`msg: .asciiz "Hello, world!\n"`,
				".text",
				"main: la $a0, msg",
				"li $v0, 4",
				"syscall",
				"li $v0, 10",
				"syscall",
			))).To(Succeed())
			e.Reset()

			_, done, err := e.Run(100)
			Expect(err).NotTo(HaveOccurred())
			Expect(done).To(BeTrue())
			Expect(output.String()).To(Equal("Hello, world!\n"))
		})

		It("should echo console input", func() {
			e.Terminal.Input = strings.NewReader("21\n")
			Expect(e.Assemble(source(
				".text",
				"main: li $v0, 5",
				"syscall",
				"add $a0, $v0, $v0",
				"li $v0, 1",
				"syscall",
				"li $a0, 7",
				"li $v0, 17",
				"syscall",
			))).To(Succeed())
			e.Reset()

			_, done, err := e.Run(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(done).To(BeTrue())
			Expect(output.String()).To(Equal("42"))
			Expect(e.Cpu.ExitCode).To(Equal(7))
		})

		It("should stop at the step budget in an infinite loop", func() {
			Expect(e.Assemble(source(
				".text",
				"main: beq $zero, $zero, main",
			))).To(Succeed())
			e.Reset()

			Expect(e.Program.Instructions[0].Imm).To(Equal(int32(-1)))

			steps, done, err := e.Run(1000)
			Expect(err).NotTo(HaveOccurred())
			Expect(done).To(BeFalse())
			Expect(steps).To(Equal(1000))
			Expect(e.Pc()).To(Equal(uint32(0)))
			Expect(e.Cpu.Ticks).To(Equal(1000))
		})

		It("should report the line of a fault", func() {
			Expect(e.Assemble(source(
				".text",
				"main: nop",
				"lw $t0, 2($zero)",
			))).To(Succeed())
			e.Reset()

			_, done, err := e.Run(0)
			Expect(done).To(BeFalse())
			Expect(err).To(MatchError(memory.ErrAddressAlign))

			var rerr *emulator.ErrRuntime
			Expect(errors.As(err, &rerr)).To(BeTrue())
			Expect(rerr.LineNo).To(Equal(3))
			Expect(rerr.Pc).To(Equal(uint32(4)))
		})

		It("should fault running past the end of the program", func() {
			Expect(e.Assemble(source(
				".text",
				"main: nop",
			))).To(Succeed())
			e.Reset()

			steps, _, err := e.Run(0)
			Expect(steps).To(Equal(1))
			Expect(err).To(MatchError(cpu.ErrPcRange))
		})
	})

	Describe("Tick", func() {
		BeforeEach(func() {
			Expect(e.Assemble(source(
				".text",
				"main: addi $t0, $zero, 1",
				"li $v0, 10",
				"syscall",
			))).To(Succeed())
			e.Reset()
		})

		It("should track the source line", func() {
			Expect(e.LineNo()).To(Equal(2))
			Expect(e.Source()).To(Equal("addi $t0, $zero, 1"))

			done, err := e.Tick()
			Expect(err).NotTo(HaveOccurred())
			Expect(done).To(BeFalse())
			Expect(e.LineNo()).To(Equal(3))
			Expect(e.Source()).To(Equal("li $v0, 10"))
		})

		It("should report done after exit", func() {
			for range 4 {
				done, err := e.Tick()
				Expect(err).NotTo(HaveOccurred())
				Expect(done).To(Equal(e.Cpu.Halted))
			}
			Expect(e.Cpu.Halted).To(BeTrue())
			Expect(e.LineNo()).To(Equal(0))

			done, err := e.Tick()
			Expect(err).NotTo(HaveOccurred())
			Expect(done).To(BeTrue())
		})

		It("should restart after a reset", func() {
			_, _, err := e.Run(0)
			Expect(err).NotTo(HaveOccurred())

			e.Reset()
			Expect(e.Cpu.Halted).To(BeFalse())
			Expect(e.Pc()).To(Equal(uint32(0)))
			Expect(e.Cpu.Register[cpu.REG_T0]).To(Equal(uint32(0)))
		})
	})

	Describe("Instructions", func() {
		It("should list the program by address", func() {
			Expect(e.Assemble(source(
				".text",
				"main: la $a0, main",
				"jr $ra",
			))).To(Succeed())

			var listing []string
			for addr, ins := range e.Instructions() {
				Expect(addr % 4).To(BeZero())
				listing = append(listing, ins.String())
			}
			Expect(listing).To(Equal([]string{
				"lui $a0, 0x0",
				"ori $a0, $a0, 0x0",
				"jr $ra",
			}))
		})
	})
})
