package coords

import "math"

// ellipsoid is a reference ellipsoid given by semi-major axis and
// flattening.
type ellipsoid struct {
	a float64
	f float64
}

var (
	wgs84      = ellipsoid{a: 6378137.0, f: 1 / 298.257223563}
	krassovsky = ellipsoid{a: 6378245.0, f: 1 / 298.3}
	degPerRad  = 180 / math.Pi
)

// e2 returns the first eccentricity squared.
func (e ellipsoid) e2() float64 {
	return e.f * (2 - e.f)
}

// transverseMercator holds the parameters of one transverse Mercator grid,
// the same set a proj string carries in +lon_0 +k +x_0 +y_0.
type transverseMercator struct {
	ellps         ellipsoid
	centralMerid  float64 // degrees
	scale         float64
	falseEasting  float64
	falseNorthing float64
}

// inverse converts grid easting/northing in meters to geodetic lat/lon in
// degrees on the projection's own ellipsoid.
func (tm transverseMercator) inverse(easting, northing float64) (lat, lon float64) {
	a := tm.ellps.a
	ecc := tm.ellps.e2()
	k0 := tm.scale
	eccPrime := ecc / (1 - ecc)
	e1 := (1 - math.Sqrt(1-ecc)) / (1 + math.Sqrt(1-ecc))

	x := easting - tm.falseEasting
	y := northing - tm.falseNorthing

	m := y / k0
	mu := m / (a * (1 - ecc/4 - 3*ecc*ecc/64 - 5*ecc*ecc*ecc/256))

	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu)

	sinPhi := math.Sin(phi1)
	cosPhi := math.Cos(phi1)
	tanPhi := math.Tan(phi1)

	n1 := a / math.Sqrt(1-ecc*sinPhi*sinPhi)
	t1 := tanPhi * tanPhi
	c1 := eccPrime * cosPhi * cosPhi
	r1 := a * (1 - ecc) / math.Pow(1-ecc*sinPhi*sinPhi, 1.5)
	d := x / (n1 * k0)

	latRad := phi1 - (n1*tanPhi/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*eccPrime)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*eccPrime-3*c1*c1)*math.Pow(d, 6)/720)

	lonRad := (d -
		(1+2*t1+c1)*math.Pow(d, 3)/6 +
		(5-2*c1+28*t1-3*c1*c1+8*eccPrime+24*t1*t1)*math.Pow(d, 5)/120) / cosPhi

	return latRad * degPerRad, tm.centralMerid + lonRad*degPerRad
}

// datumShift is a three-parameter geocentric translation in meters.
type datumShift struct {
	dx, dy, dz float64
}

// apply moves a geodetic position from one ellipsoid to another through
// earth-centered coordinates. Heights are taken as zero.
func (s datumShift) apply(lat, lon float64, from, to ellipsoid) (float64, float64) {
	x, y, z := toECEF(lat, lon, from)
	return fromECEF(x+s.dx, y+s.dy, z+s.dz, to)
}

func toECEF(lat, lon float64, e ellipsoid) (x, y, z float64) {
	phi := lat / degPerRad
	lam := lon / degPerRad
	e2 := e.e2()
	n := e.a / math.Sqrt(1-e2*math.Sin(phi)*math.Sin(phi))
	x = n * math.Cos(phi) * math.Cos(lam)
	y = n * math.Cos(phi) * math.Sin(lam)
	z = n * (1 - e2) * math.Sin(phi)
	return x, y, z
}

// fromECEF uses Bowring's closed form, accurate to well under a millimeter
// near the surface.
func fromECEF(x, y, z float64, e ellipsoid) (lat, lon float64) {
	a := e.a
	b := a * (1 - e.f)
	e2 := e.e2()
	ep2 := (a*a - b*b) / (b * b)

	p := math.Hypot(x, y)
	theta := math.Atan2(z*a, p*b)
	sinT := math.Sin(theta)
	cosT := math.Cos(theta)

	phi := math.Atan2(z+ep2*b*sinT*sinT*sinT, p-e2*a*cosT*cosT*cosT)
	lam := math.Atan2(y, x)
	return phi * degPerRad, lam * degPerRad
}
