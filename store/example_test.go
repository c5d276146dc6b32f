package store

import "fmt"

func ExampleStore() {
	s, _ := New(counterReducer, nil)
	unsubscribe := s.Subscribe(func() {
		fmt.Println("state:", s.GetState())
	})
	defer unsubscribe()

	_ = s.Dispatch(increment{})
	_ = s.Dispatch(increment{})
	_ = s.Dispatch(decrement{})
	// Output:
	// state: 1
	// state: 2
	// state: 1
}
