package benchmarks

// GetMicrobenchmarks returns the standard set of microbenchmarks. Each one
// targets a single pipeline behavior.
//
// Dependent instructions in the unpadded benchmarks only produce the right
// result with forwarding enabled.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		loadUse(),
		branchLoop(),
		functionCall(),
	}
}

// GetCoreBenchmarks returns the benchmarks that produce correct results
// with and without forwarding.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		branchLoop(),
		functionCall(),
	}
}

// 1. Arithmetic Sequential - independent operations, no hazards
func arithmeticSequential() Benchmark {
	return Benchmark{
		Name:        "arithmetic_sequential",
		Description: "10 ADDIs over 5 registers - measures ideal throughput",
		Source: `
        addi x1, x1, 1
        addi x2, x2, 1
        addi x3, x3, 1
        addi x4, x4, 1
        addi x5, x5, 1
        addi x1, x1, 1
        addi x2, x2, 1
        addi x3, x3, 1
        addi x4, x4, 1
        addi x5, x5, 1
`,
		ResultReg: 1,
		Expected:  2,
	}
}

// 2. Dependency Chain - every instruction reads the previous result
func dependencyChain() Benchmark {
	return Benchmark{
		Name:        "dependency_chain",
		Description: "10 dependent ADDIs (x1 = x1 + 1) - needs forwarding",
		Source: `
        li   x1, 0
        addi x1, x1, 1
        addi x1, x1, 1
        addi x1, x1, 1
        addi x1, x1, 1
        addi x1, x1, 1
        addi x1, x1, 1
        addi x1, x1, 1
        addi x1, x1, 1
        addi x1, x1, 1
        addi x1, x1, 1
`,
		ResultReg: 1,
		Expected:  10,
	}
}

// 3. Load Use - each load feeds the very next instruction
func loadUse() Benchmark {
	return Benchmark{
		Name:        "load_use",
		Description: "3 loads each consumed immediately - measures load-use stalls",
		Source: `
        .data
v0:     .word 1
v1:     .word 2
v2:     .word 3
        .text
        lw   x1, v0(x0)
        add  x4, x0, x1
        lw   x2, v1(x0)
        add  x4, x4, x2
        lw   x3, v2(x0)
        add  x4, x4, x3
`,
		ResultReg: 4,
		Expected:  6,
	}
}

// 4. Branch Loop - a counted loop with two delay slots per branch
func branchLoop() Benchmark {
	return Benchmark{
		Name:        "branch_loop",
		Description: "count x1 down from 3 - measures taken branches",
		Source: `
        li   x1, 3
        nop
        nop
        nop
loop:
        addi x1, x1, -1
        nop
        nop
        nop
        bne  x1, x0, loop
        nop
        nop
`,
		ResultReg: 1,
		Expected:  0,
	}
}

// 5. Function Call - call and return through ra
func functionCall() Benchmark {
	return Benchmark{
		Name:        "function_call",
		Description: "JAL to a doubling routine and RET - measures call overhead",
		Source: `
main:
        li   a0, 4
        jal  ra, double
        nop
        nop
        j    done
        nop
        nop
double:
        add  a0, a0, a0
        ret
        nop
        nop
done:
        nop
`,
		ResultReg: 10,
		Expected:  8,
	}
}
