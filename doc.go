// SPDX-FileCopyrightText: 2023 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: Apache-2.0 OR MIT

/*
Package shiftreg is a library for driving shift registers by bit-banging
digital pins, under the control of a host.

Serial-to-parallel registers, such as the 74HC595, are written using
[Controller.WriteOut].  Parallel-to-serial registers, such as the 74HC165, are
read using [Controller.ReadIn], which writes each reading to the Controller
output as a line of the form:

	<latchPin>:<b0>,<b1>,...,<bn>

with each byte in decimal, terminated by a newline.

Registers may also be read continuously by adding a listener with
[Controller.AddListener].  Listeners are read, in slot order, on each call to
[Controller.PollListeners], which the host control loop calls once per
iteration.  The Controller holds at most [ListenerCapacity] listeners.
[Controller.ClearListeners] removes all listeners, and is intended to be called
when the host resets the device.

All operations shift bits least significant bit first.

Pins are accessed via the [Pins] interface.  [CdevPins] provides Pins using the
Linux GPIO character device, and [PeriphPins] using periph.io.

Host commands, decoded into a [Request], are mapped to operations by
[Controller.Dispatch].

# Example Usage

Write two bytes to a pair of chained 74HC595s latched by line 8, then stream a
74HC165 latched by line 5:

	pins, err := shiftreg.NewCdevPins("gpiochip0", "shiftreg")
	c := shiftreg.NewController(pins, os.Stdout)
	err = c.WriteOut(8, 2, 11, 12, []byte{0xff, 0x01})
	c.AddListener(5, 1, 6, 7, false)
	for {
		err = c.PollListeners()
	}
*/
package shiftreg
