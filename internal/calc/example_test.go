package calc

import "fmt"

func ExampleAdd() {
	fmt.Println(Add(2, 40))
	// Output: 42
}

func ExampleFibonacci() {
	fmt.Println(Fibonacci(0))
	fmt.Println(Fibonacci(1))
	fmt.Println(Fibonacci(10))
	// Output:
	// []
	// [0]
	// [0 1 1 2 3 5 8 13 21 34]
}

func ExampleFibonacciChecked() {
	_, err := FibonacciChecked(MaxExactTerms + 1)
	fmt.Println(err)
	// Output: integer overflow
}
