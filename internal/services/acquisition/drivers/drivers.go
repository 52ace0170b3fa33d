// Package drivers espone le interfacce verso i sensori del nodo di
// acquisizione e le relative implementazioni simulate. Su hardware reale le
// stesse interfacce vengono soddisfatte dai driver I2C/ADC.
package drivers

// PulseSensor ritorna il segnale fotopletismografico normalizzato [0,1].
type PulseSensor interface {
	Read() float64
}

// IMUSensor ritorna i tre assi dell'accelerometro in conteggi raw; la scala
// di sensibilità (LSB per g) serve a normalizzare il modulo del vettore.
type IMUSensor interface {
	ReadAccel() (x, y, z float64)
	Sensitivity() float64
}

// TempSensor ritorna la temperatura cutanea in °C; una lettura fallita
// produce NaN e viene scartata a valle.
type TempSensor interface {
	Read() float64
}
