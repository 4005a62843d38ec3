package observer

type Observer interface {
	Update(event string, data interface{})
}

type Subject interface {
	Notify(event string, data interface{})
}

// Observers fans an event out to every registered observer in order.
type Observers []Observer

func (o Observers) Notify(event string, data interface{}) {
	for _, v := range o {
		v.Update(event, data)
	}
}

// Func adapts a plain function to the Observer interface.
type Func func(event string, data interface{})

func (f Func) Update(event string, data interface{}) {
	f(event, data)
}
